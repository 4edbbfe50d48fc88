package converter

// ProductRedisModel: товар каталога в кэше. Цена хранится строкой без потери точности.
type ProductRedisModel struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url,omitempty"`
}

// CatalogIndexRedisModel: порядок товаров последнего снимка каталога.
type CatalogIndexRedisModel struct {
	IDs []int64 `json:"ids"`
}
