package handlers

import (
	"github.com/LumosAcademy/payment_service/internal/dto"
	"github.com/LumosAcademy/payment_service/internal/helper"
	"github.com/LumosAcademy/payment_service/internal/helper/utils"
	"github.com/LumosAcademy/payment_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ResumeHandler struct {
	svc  services.ResumeService
	auth helper.Auth
}

func NewResumeHandler(svc services.ResumeService, auth helper.Auth) *ResumeHandler {
	return &ResumeHandler{svc: svc, auth: auth}
}

func (h *ResumeHandler) ApprovePayment(ctx *fiber.Ctx) error {
	admin, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	requestID, err := ctx.ParamsInt("requestID")
	if err != nil || requestID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid request id")
	}

	var req dto.ApproveResumePaymentRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid request body")
	}

	data, err := h.svc.ApprovePayment(uint(requestID), uint(admin.UserID), req.AdminNotes)
	if err != nil {
		return resumeDecisionError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, data)
}

func (h *ResumeHandler) RejectPayment(ctx *fiber.Ctx) error {
	admin, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	requestID, err := ctx.ParamsInt("requestID")
	if err != nil || requestID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid request id")
	}

	var req dto.RejectResumePaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid request body")
	}

	data, err := h.svc.RejectPayment(uint(requestID), uint(admin.UserID), req.AdminNotes)
	if err != nil {
		return resumeDecisionError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, data)
}

func (h *ResumeHandler) Deliver(ctx *fiber.Ctx) error {
	requestID, err := ctx.ParamsInt("requestID")
	if err != nil || requestID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid request id")
	}

	var req dto.DeliverResumeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid request body")
	}

	data, err := h.svc.Deliver(uint(requestID), req.ResumeURL)
	if err != nil {
		return resumeDecisionError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, data)
}

func resumeDecisionError(ctx *fiber.Ctx, err error) error {
	switch err.Error() {
	case "resume request not found":
		return utils.ResponseError(ctx, fiber.StatusNotFound, err.Error())
	case "resume request has already been reviewed", "resume request is not in progress":
		return utils.ResponseError(ctx, fiber.StatusConflict, err.Error())
	default:
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
}
