package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sistema-tareas/internal/middleware"
	"sistema-tareas/internal/model"
	"sistema-tareas/internal/service"
	"sistema-tareas/pkg/apierror"
)

type TareaHandler struct {
	gestor *service.GestorSistema
}

func NewTareaHandler(gestor *service.GestorSistema) *TareaHandler {
	return &TareaHandler{gestor: gestor}
}

func (h *TareaHandler) List(w http.ResponseWriter, r *http.Request) {
	tareas, err := h.gestor.ListarTareas()
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tareas, &model.Meta{Total: len(tareas)})
}

func (h *TareaHandler) Get(w http.ResponseWriter, r *http.Request) {
	nombre := chi.URLParam(r, "nombre")

	tarea, err := h.gestor.ObtenerTarea(nombre)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tarea, nil)
}

// ListByUsuario returns the tasks assigned to a user. The finalizadas query
// parameter (default true) also includes finished ones.
func (h *TareaHandler) ListByUsuario(w http.ResponseWriter, r *http.Request) {
	nombre := chi.URLParam(r, "nombre")

	incluirFinalizadas := true
	if raw := r.URL.Query().Get("finalizadas"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, apierror.Validation("el parámetro finalizadas debe ser booleano", raw))
			return
		}
		incluirFinalizadas = parsed
	}

	tareas, err := h.gestor.ObtenerTareasUsuario(nombre, incluirFinalizadas)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tareas, &model.Meta{Total: len(tareas)})
}

func (h *TareaHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CrearTareaRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("el cuerpo JSON es inválido", ""))
		return
	}

	tarea, err := h.gestor.CrearTarea(payload.Nombre, payload.Descripcion)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, tarea, nil)
}

func (h *TareaHandler) Asignar(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.AsignacionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("el cuerpo JSON es inválido", ""))
		return
	}

	if err := h.gestor.AsignarUsuarioTarea(payload.NombreTarea, payload.NombreUsuario); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "usuario asignado a la tarea")
}

func (h *TareaHandler) Desasignar(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.AsignacionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("el cuerpo JSON es inválido", ""))
		return
	}

	if err := h.gestor.DesasignarUsuarioTarea(payload.NombreTarea, payload.NombreUsuario); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "usuario desasignado de la tarea")
}

func (h *TareaHandler) Finalizar(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.FinalizarTareaRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("el cuerpo JSON es inválido", ""))
		return
	}

	if err := h.gestor.FinalizarTarea(payload.NombreTarea); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "tarea finalizada exitosamente")
}

func (h *TareaHandler) Reactivar(w http.ResponseWriter, r *http.Request) {
	nombre := chi.URLParam(r, "nombre")

	if err := h.gestor.ReactivarTarea(nombre); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "tarea reactivada exitosamente")
}

// Delete removes a finalized task for good. Pending tasks are refused by
// the gestor.
func (h *TareaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	nombre := chi.URLParam(r, "nombre")

	if err := h.gestor.EliminarTarea(nombre); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "tarea eliminada exitosamente")
}

// Comentar records a comment with the authenticated user as author. The
// author comes from the token claims, never from the payload.
func (h *TareaHandler) Comentar(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("se requiere autenticación", ""))
		return
	}

	var payload model.ComentarioRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("el cuerpo JSON es inválido", ""))
		return
	}

	if err := h.gestor.AgregarComentarioTarea(payload.NombreTarea, payload.Comentario, claims.Nombre); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "comentario agregado exitosamente")
}
