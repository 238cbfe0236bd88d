package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type DatabaseConfig struct {
	DSN          string        `envconfig:"DSN" split_words:"true" required:"true"`
	MaxOpenConns int           `envconfig:"MAX_OPEN_CONNS" split_words:"true" default:"10"`
	Timeout      time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

type messageRow struct {
	bun.BaseModel `bun:"table:conversation_messages,alias:cm"`

	ID        string         `bun:"id,pk"`
	ChatID    string         `bun:"chat_id,notnull"`
	Seq       int64          `bun:"seq,notnull"`
	Role      string         `bun:"role,notnull"`
	Content   string         `bun:"content,notnull"`
	Metadata  map[string]any `bun:"metadata"`
	CreatedAt time.Time      `bun:"created_at,notnull"`
}

func (r messageRow) toMessage() contractx.ConversationMessage {
	return contractx.ConversationMessage{
		ID:        r.ID,
		ChatID:    r.ChatID,
		Role:      contractx.Role(r.Role),
		Content:   r.Content,
		Timestamp: r.CreatedAt.UTC(),
		Metadata:  r.Metadata,
	}
}

// SQLStore persists histories through bun. Order within a chat is the seq
// column, assigned under a per-chat lock and guarded by a unique index.
type SQLStore struct {
	db    *bun.DB
	locks *KeyedMutex
	now   func() time.Time
}

var _ Store = (*SQLStore)(nil)

// OpenPostgres opens a bun DB over pgdriver.
func OpenPostgres(cfg DatabaseConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("database dsn is required")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(cfg.Timeout),
	))
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// OpenSQLite opens a bun DB over mattn/go-sqlite3. SQLite allows one writer,
// so the pool is pinned to a single connection.
func OpenSQLite(cfg DatabaseConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("database dsn is required")
	}
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// NewSQLStore creates the schema if needed.
func NewSQLStore(ctx context.Context, db *bun.DB) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}

	if _, err := db.NewCreateTable().
		Model((*messageRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("create conversation_messages table: %w", err)
	}
	if _, err := db.NewCreateIndex().
		Model((*messageRow)(nil)).
		Index("conversation_messages_chat_seq_idx").
		Unique().
		IfNotExists().
		Column("chat_id", "seq").
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("create conversation_messages index: %w", err)
	}

	return &SQLStore{
		db:    db,
		locks: NewKeyedMutex(),
		now:   time.Now,
	}, nil
}

func (s *SQLStore) Append(
	ctx context.Context,
	chatID string,
	role contractx.Role,
	content string,
	metadata map[string]any,
) (contractx.ConversationMessage, error) {
	key, err := normalizeChatID(chatID)
	if err != nil {
		return contractx.ConversationMessage{}, err
	}
	msg, err := newMessage(key, role, content, metadata, s.now())
	if err != nil {
		return contractx.ConversationMessage{}, err
	}

	unlock := s.locks.Lock(key)
	defer unlock()

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var maxSeq sql.NullInt64
		if err := tx.NewSelect().
			Model((*messageRow)(nil)).
			ColumnExpr("MAX(seq)").
			Where("chat_id = ?", key).
			Scan(ctx, &maxSeq); err != nil {
			return fmt.Errorf("read last seq: %w", err)
		}

		row := &messageRow{
			ID:        msg.ID,
			ChatID:    key,
			Seq:       maxSeq.Int64 + 1,
			Role:      string(msg.Role),
			Content:   msg.Content,
			Metadata:  msg.Metadata,
			CreatedAt: msg.Timestamp,
		}
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return fmt.Errorf("insert conversation message: %w", err)
		}
		return nil
	})
	if err != nil {
		return contractx.ConversationMessage{}, err
	}

	return msg.Clone(), nil
}

func (s *SQLStore) Recent(ctx context.Context, chatID string, count int) ([]contractx.ConversationMessage, error) {
	key, err := normalizeChatID(chatID)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return []contractx.ConversationMessage{}, nil
	}

	var rows []messageRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("chat_id = ?", key).
		OrderExpr("seq DESC").
		Limit(count).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("select recent messages: %w", err)
	}

	out := make([]contractx.ConversationMessage, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = row.toMessage()
	}
	return out, nil
}

func (s *SQLStore) Dump(ctx context.Context, chatID string) ([]contractx.ConversationMessage, error) {
	key, err := normalizeChatID(chatID)
	if err != nil {
		return nil, err
	}

	var rows []messageRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("chat_id = ?", key).
		OrderExpr("seq ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}

	out := make([]contractx.ConversationMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toMessage())
	}
	return out, nil
}
