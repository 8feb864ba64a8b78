package handler

import (
	"net/http"

	"sistema-tareas/internal/service"
)

type StatsHandler struct {
	gestor *service.GestorSistema
}

func NewStatsHandler(gestor *service.GestorSistema) *StatsHandler {
	return &StatsHandler{gestor: gestor}
}

// Get returns system counters. The gestor degrades internally, so this
// endpoint answers 200 even when the counts could not be produced; clients
// check the error field in the payload.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.gestor.ObtenerEstadisticasSistema(), nil)
}
