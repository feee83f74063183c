package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

var messages = map[string]string{
	httperr.CodeSalonNotFound:       "Salão não encontrado.",
	httperr.CodeServiceNotFound:     "Serviço não encontrado.",
	httperr.CodeAppointmentNotFound: "Agendamento não encontrado.",
	httperr.CodeBlockNotFound:       "Bloqueio não encontrado.",
	httperr.CodeSlotUnavailable:     "Horário indisponível.",
	httperr.CodeBookingBusy:         "Muitos agendamentos simultâneos. Tente novamente.",
	httperr.CodeInvalidInput:        "Dados inválidos.",
	httperr.CodeInvalidDate:         "Data inválida.",
	httperr.CodeInvalidTime:         "Horário inválido.",
	httperr.CodeInvalidDuration:     "Duração inválida.",
	httperr.CodeInvalidStatus:       "Status inválido.",
	httperr.CodeInvalidTransition:   "Mudança de status não permitida.",
	httperr.CodeCancellationClosed:  "Prazo de cancelamento encerrado.",
}

// respondError is the single place use case errors become HTTP responses.
// Business errors keep their code; everything else is logged and hidden
// behind internal_error.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var be httperr.BusinessError
	if errors.As(err, &be) && be.Kind() != httperr.KindUnknown {
		httperr.Write(c, httperr.StatusFor(be.Kind()), be.Code, messages[be.Code])
		return
	}

	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}
