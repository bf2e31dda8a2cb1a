package handlers

import (
	"strconv"

	"guildpay/internal/services/wallet"
	"guildpay/internal/utils/pagination"
	"guildpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// WalletHandler exposes the ledger to the storefront API gateway.
type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func parseWalletID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}

func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	var input struct {
		UserID     uint   `json:"user_id"`
		WalletType string `json:"wallet_type"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if input.UserID == 0 {
		return response.BadRequest(c, "user_id is required")
	}

	w, err := h.walletService.GetOrCreateWallet(c.Context(), input.UserID, input.WalletType)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	w, err := h.walletService.GetWallet(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) ListWallets(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	wallets, total, err := h.walletService.ListWallets(c.Context(), wallet.ListQuery{
		Page:   p.Page,
		Limit:  p.Limit,
		Type:   c.Query("type"),
		Search: c.Query("search"),
	})
	if err != nil {
		return response.InternalError(c, "failed to list wallets")
	}
	p.Total = total
	return response.Success(c, pagination.Response(p, wallets))
}

func (h *WalletHandler) UpdateWallet(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		IsActive *bool   `json:"is_active"`
		Currency *string `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	w, err := h.walletService.UpdateWallet(c.Context(), id, wallet.UpdateInput{
		IsActive: input.IsActive,
		Currency: input.Currency,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) Credit(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		Amount          decimal.Decimal `json:"amount"`
		Type            string          `json:"type"`
		OrderID         *uint           `json:"order_id"`
		PaymentMethodID *uint           `json:"payment_method_id"`
		Reference       string          `json:"reference"`
		Notes           string          `json:"notes"`
		CreatedByID     *uint           `json:"created_by_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	w, txn, err := h.walletService.AddBalance(c.Context(), id, input.Amount, input.Type, wallet.AddOptions{
		OrderID:         input.OrderID,
		PaymentMethodID: input.PaymentMethodID,
		Reference:       input.Reference,
		Notes:           input.Notes,
		CreatedByID:     input.CreatedByID,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"wallet": w, "transaction": txn})
}

func (h *WalletHandler) Debit(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		Amount        decimal.Decimal `json:"amount"`
		OrderID       *uint           `json:"order_id"`
		Notes         string          `json:"notes"`
		LockAsPending bool            `json:"lock_as_pending"`
		CreatedByID   *uint           `json:"created_by_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	w, txn, err := h.walletService.DeductBalance(c.Context(), id, input.Amount, wallet.DeductOptions{
		OrderID:       input.OrderID,
		Notes:         input.Notes,
		LockAsPending: input.LockAsPending,
		CreatedByID:   input.CreatedByID,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"wallet": w, "transaction": txn})
}

func (h *WalletHandler) ReleasePending(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		Amount      decimal.Decimal `json:"amount"`
		OrderID     *uint           `json:"order_id"`
		CreatedByID *uint           `json:"created_by_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	w, txn, err := h.walletService.ReleasePendingBalance(c.Context(), id, input.Amount, input.OrderID, input.CreatedByID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"wallet": w, "transaction": txn})
}

func (h *WalletHandler) Refund(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		Amount      decimal.Decimal `json:"amount"`
		OrderID     *uint           `json:"order_id"`
		Notes       string          `json:"notes"`
		CreatedByID *uint           `json:"created_by_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	w, txn, err := h.walletService.RefundBalance(c.Context(), id, input.Amount, wallet.RefundOptions{
		OrderID:     input.OrderID,
		Notes:       input.Notes,
		CreatedByID: input.CreatedByID,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"wallet": w, "transaction": txn})
}

func (h *WalletHandler) Adjust(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		Amount      decimal.Decimal `json:"amount"`
		Reference   string          `json:"reference"`
		Notes       string          `json:"notes"`
		CreatedByID *uint           `json:"created_by_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	w, txn, err := h.walletService.AdjustBalance(c.Context(), id, wallet.AdjustmentInput{
		Amount:    input.Amount,
		Reference: input.Reference,
		Notes:     input.Notes,
	}, input.CreatedByID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"wallet": w, "transaction": txn})
}

func (h *WalletHandler) Disburse(c *fiber.Ctx) error {
	var input struct {
		FromWalletID uint            `json:"from_wallet_id"`
		ToWalletID   uint            `json:"to_wallet_id"`
		Amount       decimal.Decimal `json:"amount"`
		OrderID      *uint           `json:"order_id"`
		Notes        string          `json:"notes"`
		CreatedByID  *uint           `json:"created_by_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	result, err := h.walletService.ReleaseAndDisburse(c.Context(), wallet.DisbursementRequest{
		FromWalletID: input.FromWalletID,
		ToWalletID:   input.ToWalletID,
		Amount:       input.Amount,
		OrderID:      input.OrderID,
		Notes:        input.Notes,
		CreatedByID:  input.CreatedByID,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{
		"from_wallet":         result.FromWallet,
		"to_wallet":           result.ToWallet,
		"release_transaction": result.ReleaseTxn,
		"earning_transaction": result.EarningTxn,
	})
}

func (h *WalletHandler) GetTransactionHistory(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	p := pagination.ParseFromRequest(c)
	txns, total, err := h.walletService.GetTransactionHistory(c.Context(), id, wallet.HistoryQuery{
		Page:   p.Page,
		Limit:  p.Limit,
		Type:   c.Query("type"),
		Status: c.Query("status"),
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	p.Total = total
	return response.Success(c, pagination.Response(p, txns))
}

func (h *WalletHandler) GetWalletStats(c *fiber.Ctx) error {
	id, err := parseWalletID(c)
	if err != nil {
		return response.BadRequest(c, "invalid wallet id")
	}

	stats, err := h.walletService.GetWalletStats(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"stats": stats})
}

func (h *WalletHandler) GetSystemStats(c *fiber.Ctx) error {
	stats, err := h.walletService.GetSystemStats(c.Context())
	if err != nil {
		return response.InternalError(c, "failed to get system stats")
	}
	return response.Success(c, fiber.Map{"stats": stats})
}

func (h *WalletHandler) GetSystemWallet(c *fiber.Ctx) error {
	w, err := h.walletService.GetSystemWallet(c.Context())
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"wallet": w})
}
