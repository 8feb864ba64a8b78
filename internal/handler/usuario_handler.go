package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"sistema-tareas/internal/model"
	"sistema-tareas/internal/service"
	"sistema-tareas/pkg/apierror"
)

const (
	listPageDefault  = 1
	listLimitDefault = 10
	listLimitMax     = 100
)

type UsuarioHandler struct {
	gestor *service.GestorSistema
}

func NewUsuarioHandler(gestor *service.GestorSistema) *UsuarioHandler {
	return &UsuarioHandler{gestor: gestor}
}

// List returns the user directory one page at a time, filtered by optional
// name substring (search) and role (rol). Only admins reach this handler;
// the meta block carries the filtered totals for client-side pagers.
func (h *UsuarioHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", listPageDefault)
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := queryInt(r, "limit", listLimitDefault)
	if err != nil {
		writeError(w, err)
		return
	}
	if page < 1 {
		writeError(w, apierror.Validation("el número de página debe ser mayor o igual a 1", "page"))
		return
	}
	if limit < 1 || limit > listLimitMax {
		writeError(w, apierror.Validation("el límite debe estar entre 1 y 100", "limit"))
		return
	}

	rol := r.URL.Query().Get("rol")
	if rol != "" && rol != string(model.RolAdmin) && rol != string(model.RolUser) {
		writeError(w, apierror.Validation("el rol debe ser 'admin' o 'user'", "rol"))
		return
	}
	search := strings.ToLower(r.URL.Query().Get("search"))

	usuarios, err := h.gestor.ListarUsuarios()
	if err != nil {
		writeError(w, err)
		return
	}

	publicos := make([]model.UsuarioPublico, 0, len(usuarios))
	for _, u := range usuarios {
		if search != "" && !strings.Contains(strings.ToLower(u.Nombre), search) {
			continue
		}
		if rol != "" && string(u.Rol) != rol {
			continue
		}
		publicos = append(publicos, u.Publico())
	}

	total := len(publicos)
	totalPages := (total + limit - 1) / limit
	if page > totalPages && total > 0 {
		writeError(w, apierror.NotFound(
			fmt.Sprintf("la página %d no existe", page),
			fmt.Sprintf("total de páginas: %d", totalPages),
		))
		return
	}

	inicio := (page - 1) * limit
	if inicio > total {
		inicio = total
	}
	fin := inicio + limit
	if fin > total {
		fin = total
	}

	writeSuccess(w, http.StatusOK, publicos[inicio:fin], &model.Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	})
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.Validation(fmt.Sprintf("el parámetro %s debe ser numérico", name), raw)
	}

	return parsed, nil
}

func (h *UsuarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	nombre := chi.URLParam(r, "nombre")

	usuario, err := h.gestor.ObtenerUsuario(nombre)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, usuario.Publico(), nil)
}

// Create registers a user without credentials. Someone has to set the
// initial password afterwards, either the user or an admin.
func (h *UsuarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CrearUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("el cuerpo JSON es inválido", ""))
		return
	}

	usuario, err := h.gestor.CrearUsuario(payload.Nombre)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, usuario.Publico(), nil)
}

func (h *UsuarioHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CrearAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("el cuerpo JSON es inválido", ""))
		return
	}

	admin, err := h.gestor.CrearAdmin(payload.Nombre, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, admin.Publico(), nil)
}

func (h *UsuarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	nombre := chi.URLParam(r, "nombre")

	if err := h.gestor.EliminarUsuario(nombre); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "usuario eliminado exitosamente")
}
