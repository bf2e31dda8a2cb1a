package handlers

import (
	"guildpay/internal/models"
	"guildpay/internal/services/user"
	"guildpay/internal/services/wallet"
	"guildpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// BotHandler is the Discord bot's convenience surface. The bot addresses
// everything by Discord ID; these handlers resolve the identity (creating
// the user and wallet on first contact) and delegate to the same ledger
// operations the storefront API uses.
type BotHandler struct {
	userService   user.Service
	walletService wallet.Service
}

func NewBotHandler(userService user.Service, walletService wallet.Service) *BotHandler {
	return &BotHandler{
		userService:   userService,
		walletService: walletService,
	}
}

func (h *BotHandler) resolveWallet(c *fiber.Ctx, discordID, username, walletType string) (*models.Wallet, error) {
	u, err := h.userService.ResolveDiscordUser(c.Context(), discordID, username)
	if err != nil {
		return nil, err
	}
	return h.walletService.GetOrCreateWallet(c.Context(), u.ID, walletType)
}

func (h *BotHandler) GetWallet(c *fiber.Ctx) error {
	w, err := h.resolveWallet(c, c.Params("discordID"), "", "")
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"wallet": w})
}

func (h *BotHandler) Deposit(c *fiber.Ctx) error {
	var input struct {
		DiscordID string          `json:"discord_id"`
		Username  string          `json:"username"`
		Amount    decimal.Decimal `json:"amount"`
		Notes     string          `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	w, err := h.resolveWallet(c, input.DiscordID, input.Username, "")
	if err != nil {
		return response.DomainError(c, err)
	}

	w, txn, err := h.walletService.AddBalance(c.Context(), w.ID, input.Amount, models.TransactionTypeDeposit, wallet.AddOptions{
		Notes: input.Notes,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"wallet": w, "transaction": txn})
}

func (h *BotHandler) Charge(c *fiber.Ctx) error {
	var input struct {
		DiscordID     string          `json:"discord_id"`
		Amount        decimal.Decimal `json:"amount"`
		OrderID       *uint           `json:"order_id"`
		LockAsPending bool            `json:"lock_as_pending"`
		Notes         string          `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	w, err := h.resolveWallet(c, input.DiscordID, "", "")
	if err != nil {
		return response.DomainError(c, err)
	}

	w, txn, err := h.walletService.DeductBalance(c.Context(), w.ID, input.Amount, wallet.DeductOptions{
		OrderID:       input.OrderID,
		LockAsPending: input.LockAsPending,
		Notes:         input.Notes,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"wallet": w, "transaction": txn})
}

func (h *BotHandler) WorkerDeposit(c *fiber.Ctx) error {
	var input struct {
		DiscordID string          `json:"discord_id"`
		Username  string          `json:"username"`
		Amount    decimal.Decimal `json:"amount"`
		Notes     string          `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	w, err := h.resolveWallet(c, input.DiscordID, input.Username, models.WalletTypeWorker)
	if err != nil {
		return response.DomainError(c, err)
	}

	w, txn, err := h.walletService.AddBalance(c.Context(), w.ID, input.Amount, models.TransactionTypeWorkerDeposit, wallet.AddOptions{
		Notes: input.Notes,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"wallet": w, "transaction": txn})
}
