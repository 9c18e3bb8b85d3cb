package usecase

import (
	"context"
	"fmt"
	"sync"

	"billboard-report/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RoleNotifier fans role changes out to live sessions of the affected user.
type RoleNotifier interface {
	Publish(ctx context.Context, userID uuid.UUID, role entity.UserRole) error
	// Subscribe returns a channel of role changes and a function that ends the
	// subscription and closes the channel.
	Subscribe(ctx context.Context, userID uuid.UUID) (<-chan entity.UserRole, func(), error)
}

// memoryRoleNotifier serves a single process.
type memoryRoleNotifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[uuid.UUID]map[int]chan entity.UserRole
}

func NewMemoryRoleNotifier() RoleNotifier {
	return &memoryRoleNotifier{subs: make(map[uuid.UUID]map[int]chan entity.UserRole)}
}

func (n *memoryRoleNotifier) Publish(_ context.Context, userID uuid.UUID, role entity.UserRole) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs[userID] {
		// slow subscribers drop intermediate values; the latest role wins on the next send
		select {
		case ch <- role:
		default:
		}
	}
	return nil
}

func (n *memoryRoleNotifier) Subscribe(_ context.Context, userID uuid.UUID) (<-chan entity.UserRole, func(), error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	ch := make(chan entity.UserRole, 1)
	if n.subs[userID] == nil {
		n.subs[userID] = make(map[int]chan entity.UserRole)
	}
	n.subs[userID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[userID], id)
			if len(n.subs[userID]) == 0 {
				delete(n.subs, userID)
			}
			close(ch)
		})
	}
	return ch, cancel, nil
}

// redisRoleNotifier publishes on <prefix>:<user_id> so every API instance sees the change.
type redisRoleNotifier struct {
	client *redis.Client
	prefix string
	log    *zap.Logger
}

func NewRedisRoleNotifier(client *redis.Client, prefix string, log *zap.Logger) RoleNotifier {
	return &redisRoleNotifier{
		client: client,
		prefix: prefix,
		log:    log.With(zap.String("component", "role_notifier")),
	}
}

func (n *redisRoleNotifier) channel(userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", n.prefix, userID.String())
}

func (n *redisRoleNotifier) Publish(ctx context.Context, userID uuid.UUID, role entity.UserRole) error {
	if err := n.client.Publish(ctx, n.channel(userID), string(role)).Err(); err != nil {
		return fmt.Errorf("publish role change: %w", err)
	}
	return nil
}

func (n *redisRoleNotifier) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan entity.UserRole, func(), error) {
	pubsub := n.client.Subscribe(ctx, n.channel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe role changes: %w", err)
	}

	out := make(chan entity.UserRole, 1)
	done := make(chan struct{})
	go func() {
		defer close(out)
		msgs := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- entity.ParseRole(msg.Payload):
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			if err := pubsub.Close(); err != nil {
				n.log.Warn("Failed to close role subscription", zap.Error(err))
			}
		})
	}
	return out, cancel, nil
}
