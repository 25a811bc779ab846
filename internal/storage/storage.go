package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/terrence3333/Mindconnect-Demo/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// broadcastChannel is the Redis pub/sub channel shared by all gateway instances.
const broadcastChannel = "chat:broadcast"

// Store is the persistence surface the gateway depends on.
type Store interface {
	// AppendMessage inserts msg; the store fills ID and CreatedAt on success.
	AppendMessage(msg *models.Message) error
	// RecentMessages returns up to limit messages for the room, newest first.
	RecentMessages(roomID string, limit int) ([]models.Message, error)
	// GetUserByID returns the user profile, or (nil, nil) when no such user exists.
	GetUserByID(id string) (*models.User, error)

	// PublishMessage pushes a persisted message onto the relay channel so other
	// gateway instances can fan it out to their local room members.
	PublishMessage(env models.Envelope) error
	// Subscribe opens the relay channel subscription and returns its message
	// stream.
	Subscribe() <-chan *redis.Message
}

// Service implements Store on PostgreSQL (via GORM) and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewService Constructor
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// AppendMessage inserts the message. GORM populates msg.ID and msg.CreatedAt
// from the created row, so the caller can broadcast the enriched message.
func (s *Service) AppendMessage(msg *models.Message) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for room %s: %v", msg.RoomID, err)
		return err
	}
	return nil
}

// RecentMessages loads the latest page of history for a room, newest first.
// The caller reverses the page for oldest-to-newest display.
func (s *Service) RecentMessages(roomID string, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.Where("room_id = ?", roomID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("ERROR: Failed to get chat history for room %s: %v", roomID, err)
		return nil, err
	}
	return messages, nil
}

// GetUserByID looks up a user profile. Returns (nil, nil) when the user does
// not exist, so callers can distinguish absence from a database failure.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get user %s: %v", id, err)
		return nil, err
	}
	return &user, nil
}

// PublishMessage publishes the envelope to the shared relay channel.
func (s *Service) PublishMessage(env models.Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, broadcastChannel, payload).Err()
}

// Subscribe opens the relay channel subscription used by the hub's relay
// loop. The subscription lives as long as the process.
func (s *Service) Subscribe() <-chan *redis.Message {
	return s.Redis.Subscribe(s.Ctx, broadcastChannel).Channel()
}

// PruneMessages deletes messages in a room older than before. Used by the
// admin CLI only; not part of the gateway's Store surface.
func (s *Service) PruneMessages(roomID string, before time.Time) (int64, error) {
	result := s.DB.Unscoped().
		Where("room_id = ? AND created_at < ?", roomID, before).
		Delete(&models.Message{})
	if result.Error != nil {
		log.Printf("ERROR: Failed to prune messages for room %s: %v", roomID, result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
