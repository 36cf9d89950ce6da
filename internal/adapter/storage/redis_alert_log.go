package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ordenes/ordersys/internal/core/domain"
)

const alertLogKey = "alerts:log"

// markReadScript finds the alert by id inside the list and flips its read
// flag in place, so concurrent appends cannot race the rewrite.
var markReadScript = redis.NewScript(`
local key = KEYS[1]
local id = ARGV[1]

local items = redis.call('LRANGE', key, 0, -1)
for i, raw in ipairs(items) do
	local alert = cjson.decode(raw)
	if alert.id == id then
		if alert.read then
			return 0
		end
		alert.read = true
		redis.call('LSET', key, i - 1, cjson.encode(alert))
		return 1
	end
end

return 0
`)

// RedisAlertLog stores the alert history in a Redis list, newest first.
type RedisAlertLog struct {
	client *redis.Client
}

func NewRedisAlertLog(client *redis.Client) *RedisAlertLog {
	return &RedisAlertLog{client: client}
}

func (r *RedisAlertLog) Append(ctx context.Context, alert domain.Alert) error {
	raw, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	return r.client.LPush(ctx, alertLogKey, raw).Err()
}

func (r *RedisAlertLog) GetAll(ctx context.Context) ([]domain.Alert, error) {
	raws, err := r.client.LRange(ctx, alertLogKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read alert log: %w", err)
	}

	alerts := make([]domain.Alert, 0, len(raws))
	for _, raw := range raws {
		var alert domain.Alert
		if err := json.Unmarshal([]byte(raw), &alert); err != nil {
			return nil, fmt.Errorf("unmarshal alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// MarkRead is idempotent; an id not present in the log is a no-op.
func (r *RedisAlertLog) MarkRead(ctx context.Context, id uuid.UUID) error {
	return markReadScript.Run(ctx, r.client, []string{alertLogKey}, id.String()).Err()
}
