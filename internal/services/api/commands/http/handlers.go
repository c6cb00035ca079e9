// Package http provides http transport for commands
package http

import (
	stdhttp "net/http"

	"ganadero/internal/modkit/httpkit"
	"ganadero/internal/services/api/commands/domain"
	svc "ganadero/internal/services/api/commands/service"
)

// Register mounts commands endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.ParseInput](r, "/parse", h.parse)
	httpkit.PostJSON[domain.ConfirmInput](r, "/confirm", h.confirm)
	httpkit.GetQuery[domain.EstablishmentQuery](r, "/confirmations", h.confirmations)
	httpkit.GetQuery[domain.EstablishmentQuery](r, "/stock", h.stock)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /commands/parse Commands commandsParse
// @Summary Interpret a livestock instruction into a reviewable preview
// @Tags Commands
// @Accept json
// @Produce json
// @Param payload body domain.ParseInput true "Instruction"
// @Success 200 {object} interpreter.ParseResult "ok"
// @Failure 400 {object} swaggerkit.ErrorResponse
// @Router /commands/parse [post]
func (h *handlers) parse(r *stdhttp.Request, in domain.ParseInput) (any, error) {
	return h.svc.Parse(r.Context(), in)
}

// swagger:route POST /commands/confirm Commands commandsConfirm
// @Summary Apply a reviewed preview
// @Description Rule violations answer 409 with the violations in details
// @Tags Commands
// @Accept json
// @Produce json
// @Param payload body domain.ConfirmInput true "Reviewed preview"
// @Success 200 {object} domain.ConfirmOutput "ok"
// @Failure 400 {object} swaggerkit.ErrorResponse
// @Failure 404 {object} swaggerkit.ErrorResponse
// @Failure 409 {object} swaggerkit.ErrorResponse
// @Router /commands/confirm [post]
func (h *handlers) confirm(r *stdhttp.Request, in domain.ConfirmInput) (any, error) {
	return h.svc.Confirm(r.Context(), in)
}

// swagger:route GET /commands/confirmations Commands commandsConfirmations
// @Summary Recorded confirmations, newest first
// @Tags Commands
// @Produce json
// @Param establishmentId query string true "Establishment id"
// @Success 200 {array} domain.Confirmation "ok"
// @Router /commands/confirmations [get]
func (h *handlers) confirmations(r *stdhttp.Request, in domain.EstablishmentQuery) (any, error) {
	return h.svc.Confirmations(r.Context(), in)
}

// swagger:route GET /commands/stock Commands commandsStock
// @Summary Current herds of an establishment
// @Tags Commands
// @Produce json
// @Param establishmentId query string true "Establishment id"
// @Success 200 {array} herd.Herd "ok"
// @Router /commands/stock [get]
func (h *handlers) stock(r *stdhttp.Request, in domain.EstablishmentQuery) (any, error) {
	return h.svc.Stock(r.Context(), in)
}
