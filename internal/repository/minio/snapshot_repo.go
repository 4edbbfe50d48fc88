package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/DRSN-tech/go-recommender/internal/cfg"
	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/internal/usecase"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

const (
	contentTypeJSON = "application/json"
	archiveTimeFmt  = "20060102T150405Z"
	maxSnapshotSize = 256 << 20
)

// SnapshotRepo хранит снимок каталога в MinIO и отдаёт его как источник каталога.
type SnapshotRepo struct {
	mc     *minio.Client
	cfg    *cfg.MinIOCfg
	logger logger.Logger
	now    func() time.Time
}

func NewSnapshotRepo(mc *minio.Client, cfg *cfg.MinIOCfg, logger logger.Logger) *SnapshotRepo {
	return &SnapshotRepo{
		mc:     mc,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// FetchAllProducts читает последний снимок каталога.
// Отсутствие объекта возвращается как e.ErrCatalogUnavailable.
func (s *SnapshotRepo) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	obj, err := s.mc.GetObject(ctx, s.cfg.BucketName, s.cfg.SnapshotKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer obj.Close()

	var snapshot snapshotModel
	if err := json.NewDecoder(io.LimitReader(obj, maxSnapshotSize)).Decode(&snapshot); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCatalogUnavailable)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return snapshot.toEntities(), nil
}

// SaveSnapshot перезаписывает текущий снимок и, если включено хранение, кладёт архивную копию.
func (s *SnapshotRepo) SaveSnapshot(ctx context.Context, products []domain.Product) (*usecase.SnapshotInfo, error) {
	generatedAt := s.now().UTC()

	data, err := json.Marshal(toSnapshotModel(products, generatedAt))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	info, err := s.put(ctx, s.cfg.SnapshotKey, data)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if s.cfg.SnapshotRetention > 0 {
		if _, err := s.put(ctx, archiveKey(s.cfg.SnapshotKey, generatedAt), data); err != nil {
			s.logger.Warnf("Failed to archive catalog snapshot: %v", e.Wrap(whereami.WhereAmI(), err))
		} else {
			s.pruneArchive(ctx)
		}
	}

	return usecase.NewSnapshotInfo(info.Bucket, info.Key, len(products), info.Size), nil
}

func (s *SnapshotRepo) put(ctx context.Context, key string, data []byte) (minio.UploadInfo, error) {
	return s.mc.PutObject(ctx, s.cfg.BucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentTypeJSON,
	})
}

// pruneArchive удаляет самые старые архивные снимки сверх лимита хранения.
func (s *SnapshotRepo) pruneArchive(ctx context.Context) {
	prefix := archivePrefix(s.cfg.SnapshotKey)

	keys := make([]string, 0)
	for obj := range s.mc.ListObjects(ctx, s.cfg.BucketName, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			s.logger.Warnf("Failed to list archived snapshots: %v", e.Wrap(whereami.WhereAmI(), obj.Err))
			return
		}
		keys = append(keys, obj.Key)
	}

	for _, key := range expiredArchives(keys, s.cfg.SnapshotRetention) {
		if err := s.mc.RemoveObject(ctx, s.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
			s.logger.Warnf("Failed to remove archived snapshot %s: %v", key, e.Wrap(whereami.WhereAmI(), err))
		}
	}
}

// archivePrefix: "snapshots/products.json" -> "snapshots/archive/products-"
func archivePrefix(snapshotKey string) string {
	dir, file := path.Split(snapshotKey)
	name := strings.TrimSuffix(file, path.Ext(file))
	return dir + "archive/" + name + "-"
}

func archiveKey(snapshotKey string, at time.Time) string {
	ext := path.Ext(snapshotKey)
	if ext == "" {
		ext = ".json"
	}
	return fmt.Sprintf("%s%s%s", archivePrefix(snapshotKey), at.UTC().Format(archiveTimeFmt), ext)
}

// expiredArchives возвращает ключи, которые не входят в keep самых новых.
// Метка времени в ключе сортируется лексикографически.
func expiredArchives(keys []string, keep int) []string {
	if keep <= 0 || len(keys) <= keep {
		return nil
	}

	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	return sorted[:len(sorted)-keep]
}
