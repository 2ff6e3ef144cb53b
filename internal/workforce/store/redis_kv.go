package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// changeChannel is the pub/sub channel all instances sharing the medium
// listen on. One channel for every collection key keeps unknown keys
// flowing to subscribers, which treat them as a conservative refresh.
const changeChannel = "ks:changes"

// changeEvent is the broadcast payload: which key changed and which
// instance wrote it, so subscribers can skip their own writes.
type changeEvent struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// RedisKV stores each collection as one JSON document under its key and
// broadcasts changes over pub/sub. Writes are whole-document overwrites;
// concurrent writers race and the last write wins.
type RedisKV struct {
	client     *redis.Client
	instanceID string
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{
		client:     client,
		instanceID: NewID("ins_"),
	}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %s: %w", key, err)
	}
	return val, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}

	// Notify only after the write landed. A lost notification degrades
	// cross-instance freshness, not correctness, so publish errors are
	// logged and swallowed.
	payload, err := json.Marshal(changeEvent{Key: key, Origin: r.instanceID})
	if err == nil {
		if err := r.client.Publish(ctx, changeChannel, payload).Err(); err != nil {
			log.Printf("[store] publish change for %s failed: %v", key, err)
		}
	}
	return nil
}

func (r *RedisKV) Subscribe(ctx context.Context, fn func(key string)) error {
	sub := r.client.Subscribe(ctx, changeChannel)

	// Force the subscription before returning so callers never miss
	// notifications sent right after Subscribe.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("kv subscribe: %w", err)
	}

	ch := sub.Channel()
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev changeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					// Unknown payload shape: refresh conservatively.
					fn("")
					continue
				}
				if ev.Origin == r.instanceID {
					continue
				}
				fn(ev.Key)
			}
		}
	}()
	return nil
}
