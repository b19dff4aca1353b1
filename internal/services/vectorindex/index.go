package vectorindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/google/uuid"

	"github.com/killallgit/podscribe/internal/models"
	"github.com/killallgit/podscribe/pkg/chunker"
)

// Index stores fragment vectors in badger and answers nearest neighbour
// queries by scanning a collection
type Index struct {
	db     *badger.DB
	marker StateMarker
	logger *slog.Logger

	mu        sync.RWMutex
	confirmed map[string]int
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens the index at path, or a throwaway in-memory index. marker is
// told about every episode whose fragments were written.
func Open(path string, inMemory bool, marker StateMarker) (*Index, error) {
	logger := slog.Default().With("component", "vectorindex")

	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening vector index: %w", err)
	}

	return &Index{
		db:        db,
		marker:    marker,
		logger:    logger,
		confirmed: make(map[string]int),
	}, nil
}

// Close closes the underlying store
func (ix *Index) Close() error {
	return ix.db.Close()
}

// EnsureCollection creates the collection if it does not exist. An existing
// collection of another dimension is an error.
func (ix *Index) EnsureCollection(ctx context.Context, name string, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: collection %s needs a positive dimension, got %d", ErrDimensionMismatch, name, dimension)
	}

	ix.mu.RLock()
	known, ok := ix.confirmed[name]
	ix.mu.RUnlock()
	if ok {
		if known != dimension {
			return fmt.Errorf("%w: collection %s has dimension %d, got %d", ErrDimensionMismatch, name, known, dimension)
		}
		return nil
	}

	var existing int
	err := ix.db.Update(func(txn *badger.Txn) error {
		coll, err := getCollection(txn, name)
		if err == nil {
			existing = coll.Dimension
			return nil
		}
		if !errors.Is(err, ErrCollectionNotFound) {
			return err
		}

		data, err := json.Marshal(Collection{Name: name, Dimension: dimension, Distance: DistanceCosine})
		if err != nil {
			return err
		}
		existing = dimension
		ix.logger.Info("creating collection", "name", name, "dimension", dimension)
		return txn.Set(collectionKey(name), data)
	})
	if err != nil {
		return fmt.Errorf("ensuring collection %s: %w", name, err)
	}

	ix.mu.Lock()
	ix.confirmed[name] = existing
	ix.mu.Unlock()

	if existing != dimension {
		return fmt.Errorf("%w: collection %s has dimension %d, got %d", ErrDimensionMismatch, name, existing, dimension)
	}
	return nil
}

// GetCollection returns collection metadata
func (ix *Index) GetCollection(ctx context.Context, name string) (*Collection, error) {
	var coll *Collection
	err := ix.db.View(func(txn *badger.Txn) error {
		var err error
		coll, err = getCollection(txn, name)
		return err
	})
	return coll, err
}

func getCollection(txn *badger.Txn, name string) (*Collection, error) {
	item, err := txn.Get(collectionKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	var coll Collection
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &coll)
	}); err != nil {
		return nil, fmt.Errorf("decoding collection %s: %w", name, err)
	}
	return &coll, nil
}

// UpsertFragments writes one record per fragment of episode and marks the
// episode embedded. An episode that is already embedded is rejected so its
// vectors are never stored twice. It returns the number of records written.
func (ix *Index) UpsertFragments(ctx context.Context, episode *models.Episode, vectors [][]float32, fragments []chunker.Fragment, collection string) (int, error) {
	if episode.Embedded() {
		return 0, fmt.Errorf("%w: episode %d", models.ErrAlreadyIndexed, episode.ID)
	}
	if !episode.Transcribed() {
		return 0, fmt.Errorf("%w: episode %d", models.ErrNotTranscribed, episode.ID)
	}
	if len(vectors) != len(fragments) {
		return 0, fmt.Errorf("%w: %d vectors, %d fragments", ErrLengthMismatch, len(vectors), len(fragments))
	}

	coll, err := ix.GetCollection(ctx, collection)
	if err != nil {
		return 0, err
	}
	for i, v := range vectors {
		if len(v) != coll.Dimension {
			return 0, fmt.Errorf("%w: fragment %d has %d values, collection %s expects %d", ErrDimensionMismatch, i, len(v), collection, coll.Dimension)
		}
	}

	keys := make([][]byte, 0, len(fragments))
	wb := ix.db.NewWriteBatch()
	defer wb.Cancel()

	for i, f := range fragments {
		rec := record{
			ID:     uuid.New().String(),
			Vector: normalize(vectors[i]),
			Payload: Payload{
				EpisodeID:    episode.ID,
				ChannelID:    episode.ChannelID,
				StartSeconds: f.StartSeconds,
				EndSeconds:   f.EndSeconds,
				Text:         f.Text,
			},
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("encoding fragment %d: %w", i, err)
		}
		key := pointKey(collection, rec.ID)
		if err := wb.Set(key, data); err != nil {
			return 0, fmt.Errorf("writing fragment %d: %w", i, err)
		}
		keys = append(keys, key)
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("writing fragments: %w", err)
	}

	if err := ix.marker.MarkEmbedded(ctx, episode.ID); err != nil {
		if delErr := ix.deleteKeys(keys); delErr != nil {
			ix.logger.Error("failed to roll back fragments", "episode_id", episode.ID, "error", delErr)
		}
		return 0, err
	}
	episode.State = models.StateEmbedded

	ix.logger.Info("episode indexed", "episode_id", episode.ID, "collection", collection, "fragments", len(keys))
	return len(keys), nil
}

// Search returns at most k records of collection ordered by descending
// cosine similarity to vector
func (ix *Index) Search(ctx context.Context, vector []float32, collection string, k int) ([]SearchHit, error) {
	if k <= 0 {
		return []SearchHit{}, nil
	}

	coll, err := ix.GetCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if len(vector) != coll.Dimension {
		return nil, fmt.Errorf("%w: query has %d values, collection %s expects %d", ErrDimensionMismatch, len(vector), collection, coll.Dimension)
	}
	query := normalize(vector)

	hits := []SearchHit{}
	err = ix.scan(ctx, collection, func(rec *record) {
		hits = append(hits, SearchHit{
			ID:      rec.ID,
			Score:   dotProduct(query, rec.Vector),
			Payload: rec.Payload,
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(hits, func(a, b SearchHit) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of records in collection
func (ix *Index) Count(ctx context.Context, collection string) (int, error) {
	count := 0
	err := ix.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = pointsPrefix(collection)
		opts.PrefetchValues = false
		iter := txn.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// DeleteEpisode removes every record of an episode and returns how many
func (ix *Index) DeleteEpisode(ctx context.Context, collection string, episodeID uint) (int, error) {
	return ix.deleteWhere(ctx, collection, func(p Payload) bool { return p.EpisodeID == episodeID })
}

// DeleteChannel removes every record of a channel and returns how many
func (ix *Index) DeleteChannel(ctx context.Context, collection string, channelID uint) (int, error) {
	return ix.deleteWhere(ctx, collection, func(p Payload) bool { return p.ChannelID == channelID })
}

func (ix *Index) deleteWhere(ctx context.Context, collection string, match func(Payload) bool) (int, error) {
	var keys [][]byte
	err := ix.scan(ctx, collection, func(rec *record) {
		if match(rec.Payload) {
			keys = append(keys, pointKey(collection, rec.ID))
		}
	})
	if err != nil {
		return 0, err
	}
	if err := ix.deleteKeys(keys); err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (ix *Index) deleteKeys(keys [][]byte) error {
	if len(keys) == 0 {
		return nil
	}
	wb := ix.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// scan decodes every record of collection
func (ix *Index) scan(ctx context.Context, collection string, fn func(*record)) error {
	return ix.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = pointsPrefix(collection)
		iter := txn.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec record
			if err := iter.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decoding record %s: %w", iter.Item().Key(), err)
			}
			fn(&rec)
		}
		return nil
	})
}

// normalize returns v scaled to unit length; the zero vector is returned as is
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}
	scale := 1 / math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) * scale)
	}
	return out
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
