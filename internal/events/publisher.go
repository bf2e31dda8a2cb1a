// Package events publishes wallet transaction events to RabbitMQ. The
// Discord bot's notifier consumes them to post balance-change messages.
// Publishing is best-effort: a broker failure is logged and never rolls
// back the ledger write that produced the event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"guildpay/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	exchangeName   = "guildpay.wallet"
	publishTimeout = 5 * time.Second
)

// WalletEvent is the wire form of one committed ledger mutation.
type WalletEvent struct {
	TransactionID  uint            `json:"transaction_id"`
	WalletID       uint            `json:"wallet_id"`
	UserID         uint            `json:"user_id"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	Amount         decimal.Decimal `json:"amount"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	Currency       string          `json:"currency"`
	OrderID        *uint           `json:"order_id,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// Publisher pushes wallet events to a topic exchange, routed by
// transaction type (e.g. "wallet.DEPOSIT").
type Publisher interface {
	PublishTransaction(ctx context.Context, wallet *models.Wallet, txn *models.WalletTransaction)
	Close() error
}

type publisher struct {
	log     *logrus.Logger
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex
}

// NewPublisher connects to RabbitMQ and declares the wallet exchange.
func NewPublisher(url string, log *logrus.Logger) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &publisher{log: log, conn: conn, channel: ch}, nil
}

func (p *publisher) PublishTransaction(ctx context.Context, wallet *models.Wallet, txn *models.WalletTransaction) {
	event := WalletEvent{
		TransactionID:  txn.ID,
		WalletID:       wallet.ID,
		UserID:         wallet.UserID,
		Type:           txn.Type,
		Status:         txn.Status,
		Amount:         txn.Amount,
		BalanceAfter:   txn.BalanceAfter,
		PendingBalance: wallet.PendingBalance,
		Currency:       wallet.Currency,
		OrderID:        txn.OrderID,
		Reference:      txn.Reference,
		OccurredAt:     txn.CreatedAt,
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.WithError(err).Error("failed to marshal wallet event")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx,
		exchangeName,
		"wallet."+txn.Type,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{
			"wallet_id":      wallet.ID,
			"transaction_id": txn.ID,
		}).Error("failed to publish wallet event")
		return
	}

	p.log.WithFields(logrus.Fields{
		"wallet_id": wallet.ID,
		"type":      txn.Type,
		"amount":    txn.Amount,
	}).Debug("published wallet event")
}

func (p *publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishTransaction(context.Context, *models.Wallet, *models.WalletTransaction) {
}
func (NoopPublisher) Close() error { return nil }
