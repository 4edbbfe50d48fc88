// Package recommender содержит чистую часть подбора рекомендаций: сравнение текстов,
// построение профиля пользователя, оценку товаров и ранжирование.
//
// Пакет не делает ввода-вывода и не хранит изменяемого состояния, поэтому его функции
// можно вызывать из любого числа обработчиков запросов одновременно.
package recommender
