package sessionstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/kelasi/core"
	"github.com/trezcool/kelasi/core/user"
)

const sessionKey = "kelasi:session:current"

// redisStore keeps the serialized current user in redis so a restart picks the
// session back up.
type redisStore struct {
	client *redis.Client
}

var _ user.SessionStore = (*redisStore)(nil)

func NewRedisStore(conf *core.Config) user.SessionStore {
	client := redis.NewClient(&redis.Options{
		Addr:         conf.Redis.Addr,
		Password:     conf.Redis.Password,
		DB:           conf.Redis.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &redisStore{client: client}
}

func (s *redisStore) Save(ctx context.Context, usr user.User) error {
	data, err := json.Marshal(usr)
	if err != nil {
		return errors.Wrap(err, "marshalling session user")
	}
	return errors.Wrap(s.client.Set(ctx, sessionKey, data, 0).Err(), "storing session user")
}

func (s *redisStore) Current(ctx context.Context) (user.User, error) {
	data, err := s.client.Get(ctx, sessionKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return user.User{}, user.ErrNoSession
		}
		return user.User{}, errors.Wrap(err, "reading session user")
	}
	var usr user.User
	if err = json.Unmarshal(data, &usr); err != nil {
		return user.User{}, errors.Wrap(err, "unmarshalling session user")
	}
	return usr, nil
}

func (s *redisStore) Clear(ctx context.Context) error {
	return errors.Wrap(s.client.Del(ctx, sessionKey).Err(), "clearing session user")
}

// Healthy verifies redis connectivity.
func Healthy(ctx context.Context, store user.SessionStore) bool {
	rs, ok := store.(*redisStore)
	if !ok {
		return true
	}
	return rs.client.Ping(ctx).Err() == nil
}
