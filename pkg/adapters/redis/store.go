package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/moonbase/moonrobot/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store and the locker.
const DefaultPrefix = "moonrobot:"

// Store implements ports.Store using Redis.
//
// Layout:
//   - <prefix>robot:<id>   robot JSON
//   - <prefix>obstacles    set of "x,y" members
//   - <prefix>history:<id> list of record JSON, newest at the head
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client so a Locker can share the connection pool.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Prefix returns the configured key prefix.
func (s *Store) Prefix() string {
	return s.prefix
}

func (s *Store) robotKey(robotID string) string {
	return s.prefix + "robot:" + robotID
}

func (s *Store) obstaclesKey() string {
	return s.prefix + "obstacles"
}

func (s *Store) historyKey(robotID string) string {
	return s.prefix + "history:" + robotID
}

// SaveRobot persists the robot JSON.
func (s *Store) SaveRobot(ctx context.Context, robot *domain.Robot) error {
	data, err := json.Marshal(robot)
	if err != nil {
		return fmt.Errorf("failed to marshal robot: %w", err)
	}
	if err := s.client.Set(ctx, s.robotKey(robot.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save robot to redis: %w", err)
	}
	return nil
}

// LoadRobot retrieves the robot from Redis.
func (s *Store) LoadRobot(ctx context.Context, robotID string) (*domain.Robot, error) {
	val, err := s.client.Get(ctx, s.robotKey(robotID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrRobotNotFound
		}
		return nil, fmt.Errorf("failed to get robot from redis: %w", err)
	}

	var robot domain.Robot
	if err := json.Unmarshal([]byte(val), &robot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal robot: %w", err)
	}
	return &robot, nil
}

// Obstacles returns every member of the obstacle set.
func (s *Store) Obstacles(ctx context.Context) (domain.ObstacleSet, error) {
	members, err := s.client.SMembers(ctx, s.obstaclesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read obstacles from redis: %w", err)
	}

	set := domain.NewObstacleSet()
	for _, m := range members {
		p, err := decodePosition(m)
		if err != nil {
			return nil, err
		}
		set.Add(p)
	}
	return set, nil
}

// AddObstacles inserts the positions with SADD, which skips existing members.
func (s *Store) AddObstacles(ctx context.Context, positions []domain.Position) (int, error) {
	if len(positions) == 0 {
		return 0, nil
	}
	members := make([]any, 0, len(positions))
	for _, p := range positions {
		members = append(members, encodePosition(p))
	}
	added, err := s.client.SAdd(ctx, s.obstaclesKey(), members...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to add obstacles to redis: %w", err)
	}
	return int(added), nil
}

// CommitBatch writes the robot and pushes the record inside MULTI/EXEC.
func (s *Store) CommitBatch(ctx context.Context, robot *domain.Robot, record *domain.CommandExecutionRecord) error {
	robotData, err := json.Marshal(robot)
	if err != nil {
		return fmt.Errorf("failed to marshal robot: %w", err)
	}
	recordData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Set(ctx, s.robotKey(robot.ID), robotData, 0)
		pipe.LPush(ctx, s.historyKey(record.RobotID), recordData)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to commit batch to redis: %w", err)
	}
	return nil
}

// History returns the records of robotID, newest first.
func (s *Store) History(ctx context.Context, robotID string, limit int) ([]domain.CommandExecutionRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	vals, err := s.client.LRange(ctx, s.historyKey(robotID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history from redis: %w", err)
	}

	out := make([]domain.CommandExecutionRecord, 0, len(vals))
	for _, v := range vals {
		var rec domain.CommandExecutionRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func encodePosition(p domain.Position) string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

func decodePosition(member string) (domain.Position, error) {
	xs, ys, ok := strings.Cut(member, ",")
	if !ok {
		return domain.Position{}, fmt.Errorf("%w: %q", domain.ErrInvalidObstacle, member)
	}
	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if errX != nil || errY != nil {
		return domain.Position{}, fmt.Errorf("%w: %q", domain.ErrInvalidObstacle, member)
	}
	return domain.Position{X: x, Y: y}, nil
}
