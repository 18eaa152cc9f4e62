package history

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/veritas/news-classifier/pkg/config"
	"github.com/veritas/news-classifier/pkg/learning"
)

// RedisStore keeps history in Redis.
//
// Key layout (prefix defaults to "veritas"):
//
//	{prefix}:history:seq           INCR counter for record ids
//	{prefix}:history:rec:{id}      hash holding one record
//	{prefix}:history:user:{user}   sorted set of ids scored by unix time
//	{prefix}:history:stats:{user}  hash of total/FAKE/REAL counters
type RedisStore struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects using cfg
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("history: invalid redis URL: %w", err)
	}
	if cfg.DatabaseNum != 0 {
		opt.DB = cfg.DatabaseNum
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("history: failed to connect to redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "veritas"
	}
	return NewRedisStore(client, prefix), nil
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) seqKey() string { return s.prefix + ":history:seq" }

func (s *RedisStore) recordKey(id int64) string {
	return fmt.Sprintf("%s:history:rec:%d", s.prefix, id)
}

func (s *RedisStore) userKey(username string) string {
	return s.prefix + ":history:user:" + username
}

func (s *RedisStore) statsKey(username string) string {
	return s.prefix + ":history:stats:" + username
}

func (s *RedisStore) Append(ctx context.Context, rec Record) error {
	ts, err := prepare(rec)
	if err != nil {
		return err
	}
	when := rec.Timestamp
	if when.IsZero() {
		when, _ = time.ParseInLocation(TimestampLayout, ts, time.Local)
	}

	id, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("history: allocate id: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.recordKey(id), map[string]interface{}{
		"username":  rec.Username,
		"title":     rec.Title,
		"author":    rec.Author,
		"text":      rec.Text,
		"result":    rec.Result,
		"timestamp": ts,
	})
	pipe.ZAdd(ctx, s.userKey(rec.Username), redis.Z{
		Score:  float64(when.Unix()),
		Member: strconv.FormatInt(id, 10),
	})
	pipe.HIncrBy(ctx, s.statsKey(rec.Username), "total", 1)
	pipe.HIncrBy(ctx, s.statsKey(rec.Username), rec.Result, 1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	return nil
}

func (s *RedisStore) Query(ctx context.Context, username string) ([]Entry, error) {
	ids, err := s.client.ZRevRange(ctx, s.userKey(username), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, member := range ids {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("history: bad record id %q: %w", member, err)
		}
		cmds[i] = pipe.HGetAll(ctx, s.recordKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}

	entries := make([]Entry, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		id, _ := strconv.ParseInt(ids[i], 10, 64)
		entries = append(entries, Entry{
			ID:        id,
			Username:  fields["username"],
			Title:     fields["title"],
			Author:    fields["author"],
			Text:      fields["text"],
			Result:    fields["result"],
			Timestamp: fields["timestamp"],
		})
	}

	// Sorted-set ties fall back to lexical member order; restore numeric id order
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Timestamp != entries[j].Timestamp {
			return entries[i].Timestamp > entries[j].Timestamp
		}
		return entries[i].ID > entries[j].ID
	})

	return entries, nil
}

func (s *RedisStore) Aggregate(ctx context.Context, username string) (Summary, error) {
	stats, err := s.client.HGetAll(ctx, s.statsKey(username)).Result()
	if err != nil {
		return Summary{}, fmt.Errorf("history: aggregate: %w", err)
	}

	count := func(field string) int {
		n, _ := strconv.Atoi(stats[field])
		return n
	}
	return Summary{
		Total: count("total"),
		Fake:  count(learning.LabelFake),
		Real:  count(learning.LabelReal),
	}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
