package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/LumosAcademy/payment_service/internal/dto"
	"github.com/LumosAcademy/payment_service/internal/helper"
	"github.com/LumosAcademy/payment_service/internal/helper/utils"
	"github.com/LumosAcademy/payment_service/internal/services"
	pkgutils "github.com/LumosAcademy/payment_service/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

const maxSlipSize = 10 << 20 // 10 MB

var errInvalidItemIDs = errors.New("item_ids must be a comma-separated list of positive ids")

type ProofHandler struct {
	svc  services.ProofService
	auth helper.Auth
}

func NewProofHandler(svc services.ProofService, auth helper.Auth) *ProofHandler {
	return &ProofHandler{svc: svc, auth: auth}
}

// Submit accepts a multipart form with the slip image and the purchase
// details and files a pending payment proof for review.
func (h *ProofHandler) Submit(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	fileHeader, err := ctx.FormFile("slip")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "slip file is required")
	}
	if fileHeader.Size > maxSlipSize {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "slip file is too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "unable to read slip file")
	}
	defer file.Close()

	slipBytes, err := pkgutils.ReadAllLimit(file, maxSlipSize)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "unable to read slip file")
	}

	itemIDs, err := parseItemIDs(ctx.FormValue("item_ids"))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(ctx.FormValue("amount")), 64)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid amount")
	}

	input := dto.SubmitProofInput{
		ItemType:     ctx.FormValue("item_type"),
		ItemIDs:      itemIDs,
		Amount:       amount,
		StudentNote:  ctx.FormValue("note"),
		SlipFilename: fileHeader.Filename,
		SlipMimeType: fileHeader.Header.Get("Content-Type"),
		SlipBytes:    slipBytes,
	}

	resp, err := h.svc.SubmitProof(ctx.Context(), uint(user.UserID), input)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, resp)
}

// List returns payment proofs for the review queue, newest first.
func (h *ProofHandler) List(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)
	status := ctx.Query("status", "all")

	resp, err := h.svc.ListProofs(page, limit, status)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

// Decide approves or rejects one pending payment proof.
func (h *ProofHandler) Decide(ctx *fiber.Ctx) error {
	admin, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	proofID, err := ctx.ParamsInt("proofID")
	if err != nil || proofID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid proof id")
	}

	var req dto.DecideProofRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid request body")
	}

	data, err := h.svc.DecideProof(uint(proofID), uint(admin.UserID), req.Status, req.AdminNotes)
	if err != nil {
		switch err.Error() {
		case "payment proof not found":
			return utils.ResponseError(ctx, fiber.StatusNotFound, err.Error())
		case "payment proof has already been reviewed":
			return utils.ResponseError(ctx, fiber.StatusConflict, err.Error())
		default:
			return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
		}
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, data)
}

func parseItemIDs(raw string) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil || id == 0 {
			return nil, errInvalidItemIDs
		}
		ids = append(ids, uint(id))
	}
	if len(ids) == 0 {
		return nil, errInvalidItemIDs
	}
	return ids, nil
}
