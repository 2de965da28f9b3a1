package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/encenape/event-service/internal/domain"
)

const (
	eventKeyPrefix = "event:"
	categoriesKey  = "events:categories"
	citiesKey      = "events:cities"

	eventTTL = 5 * time.Minute
	listTTL  = 30 * time.Minute
)

// EventCache keeps hot event lookups out of Postgres. A cache miss or a
// redis outage is never an error for the caller; reads fall through to the
// repository.
type EventCache struct {
	client *redis.Client
}

// NewEventCache wraps the shared redis client.
func NewEventCache(client *redis.Client) *EventCache {
	return &EventCache{client: client}
}

// GetEvent returns the cached event or nil on miss.
func (c *EventCache) GetEvent(ctx context.Context, id string) *domain.Event {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := c.client.Get(ctx, eventKeyPrefix+id).Bytes()
	if err != nil {
		return nil
	}
	var event domain.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil
	}
	return &event
}

// SetEvent stores the event under a short TTL.
func (c *EventCache) SetEvent(ctx context.Context, event *domain.Event) {
	if c == nil || c.client == nil || event == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	c.client.Set(ctx, eventKeyPrefix+event.ID, data, eventTTL)
}

// InvalidateEvent drops the cached row after a mutation.
func (c *EventCache) InvalidateEvent(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, eventKeyPrefix+id)
}

// GetCategories returns the cached distinct category list, or nil on miss.
func (c *EventCache) GetCategories(ctx context.Context) []string {
	return c.getStrings(ctx, categoriesKey)
}

// SetCategories caches the distinct category list.
func (c *EventCache) SetCategories(ctx context.Context, categories []string) {
	c.setStrings(ctx, categoriesKey, categories)
}

// GetCities returns the cached distinct city list, or nil on miss.
func (c *EventCache) GetCities(ctx context.Context) []string {
	return c.getStrings(ctx, citiesKey)
}

// SetCities caches the distinct city list.
func (c *EventCache) SetCities(ctx context.Context, cities []string) {
	c.setStrings(ctx, citiesKey, cities)
}

// InvalidateLists drops the category/city lists after event mutations.
func (c *EventCache) InvalidateLists(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, categoriesKey, citiesKey)
}

func (c *EventCache) getStrings(ctx context.Context, key string) []string {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}
	return values
}

func (c *EventCache) setStrings(ctx context.Context, key string, values []string) {
	if c == nil || c.client == nil || values == nil {
		return
	}
	data, err := json.Marshal(values)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, listTTL)
}
