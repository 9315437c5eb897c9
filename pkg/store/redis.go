package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/albumstack/pkg/document"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
)

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // Prepended to every key; defaults to "albumstack:"
}

// RedisStore keeps each document as a JSON string under <prefix>doc:<id> and
// the set of ids under <prefix>docs. Writes run in a WATCH/MULTI transaction
// so the revision check and the write are atomic across clients.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "albumstack:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) docKey(id string) string { return s.prefix + "doc:" + id }
func (s *RedisStore) indexKey() string        { return s.prefix + "docs" }

// storedHeader is the part of the persistence format List and Put need.
type storedHeader struct {
	Title    string            `json:"title"`
	Revision int64             `json:"revision"`
	Blocks   []json.RawMessage `json:"blocks"`
}

func (s *RedisStore) Get(ctx context.Context, id string) (*document.Document, error) {
	if err := apperr.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.docKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	doc, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	doc.ID = id
	return doc, nil
}

func (s *RedisStore) Put(ctx context.Context, doc *document.Document, expected int64) error {
	if err := validateDoc(doc); err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	key := s.docKey(doc.ID)

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		stored := Missing
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("get document: %w", err)
		default:
			var h storedHeader
			if err := json.Unmarshal(data, &h); err != nil {
				return fmt.Errorf("decode document %s: %w", doc.ID, err)
			}
			stored = h.Revision
		}
		if err := checkRevision(doc.ID, stored, expected); err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, body, 0)
			pipe.SAdd(ctx, s.indexKey(), doc.ID)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return apperr.New(apperr.ErrCodeConflict, "document %q was modified concurrently", doc.ID)
	}
	return err
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.docKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if err := s.client.SRem(ctx, s.indexKey(), id).Err(); err != nil {
		return fmt.Errorf("update index: %w", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Summary, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := []Summary{}
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var h storedHeader
		if err := json.Unmarshal([]byte(str), &h); err != nil {
			continue
		}
		out = append(out, Summary{ID: ids[i], Title: h.Title, Revision: h.Revision, Blocks: len(h.Blocks)})
	}
	sortSummaries(out)
	return out, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
