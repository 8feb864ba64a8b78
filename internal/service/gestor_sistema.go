package service

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"sistema-tareas/internal/model"
	"sistema-tareas/internal/storage"
	"sistema-tareas/internal/util"
)

// GestorSistema holds the business rules for users and tasks. Every
// operation reloads the affected collection from disk, mutates it and
// persists it back, so external edits to the data files are picked up on
// the next call. A single mutex serializes the whole sequence: two
// concurrent mutations can never interleave their load and save steps.
type GestorSistema struct {
	store *storage.Store
	mu    sync.Mutex
}

func NewGestorSistema(store *storage.Store) *GestorSistema {
	return &GestorSistema{store: store}
}

// Usuarios

func (g *GestorSistema) CrearAdmin(nombre string, password string) (model.Usuario, error) {
	nombre = strings.TrimSpace(nombre)
	if !util.ValidarNombreUsuario(nombre) {
		return model.Usuario{}, fmt.Errorf("%w: el nombre debe tener 3-20 caracteres alfanuméricos o guión bajo", model.ErrValidacion)
	}
	if strings.TrimSpace(password) == "" {
		return model.Usuario{}, fmt.Errorf("%w: la contraseña es obligatoria para administradores", model.ErrValidacion)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	usuarios, err := g.store.CargarUsuarios()
	if err != nil {
		return model.Usuario{}, err
	}

	if buscarUsuario(usuarios, nombre) != -1 {
		return model.Usuario{}, model.ErrUsuarioYaExiste
	}

	admin, err := model.NewUsuario(nombre, password, model.RolAdmin)
	if err != nil {
		return model.Usuario{}, err
	}

	usuarios = append(usuarios, admin)
	if err := g.store.GuardarUsuarios(usuarios); err != nil {
		return model.Usuario{}, err
	}

	return admin, nil
}

// CrearUsuario registers a regular user without credentials. The user stays
// in the pending state until someone sets the initial password.
func (g *GestorSistema) CrearUsuario(nombre string) (model.Usuario, error) {
	nombre = strings.TrimSpace(nombre)
	if !util.ValidarNombreUsuario(nombre) {
		return model.Usuario{}, fmt.Errorf("%w: el nombre debe tener 3-20 caracteres alfanuméricos o guión bajo", model.ErrValidacion)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	usuarios, err := g.store.CargarUsuarios()
	if err != nil {
		return model.Usuario{}, err
	}

	if buscarUsuario(usuarios, nombre) != -1 {
		return model.Usuario{}, model.ErrUsuarioYaExiste
	}

	usuario, err := model.NewUsuario(nombre, "", model.RolUser)
	if err != nil {
		return model.Usuario{}, err
	}

	usuarios = append(usuarios, usuario)
	if err := g.store.GuardarUsuarios(usuarios); err != nil {
		return model.Usuario{}, err
	}

	return usuario, nil
}

func (g *GestorSistema) EliminarUsuario(nombre string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	usuarios, err := g.store.CargarUsuarios()
	if err != nil {
		return err
	}

	idx := buscarUsuario(usuarios, nombre)
	if idx == -1 {
		return model.ErrUsuarioNoEncontrado
	}
	if usuarios[idx].EsAdmin() {
		return model.ErrEliminarAdmin
	}

	usuarios = append(usuarios[:idx], usuarios[idx+1:]...)

	return g.store.GuardarUsuarios(usuarios)
}

// AutenticarUsuario validates credentials. A user that exists but has no
// password yet fails with ErrSinPassword so callers can route them to the
// set-initial-password flow instead of a generic rejection.
func (g *GestorSistema) AutenticarUsuario(nombre string, password string) (model.Usuario, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	usuarios, err := g.store.CargarUsuarios()
	if err != nil {
		return model.Usuario{}, err
	}

	idx := buscarUsuario(usuarios, nombre)
	if idx == -1 {
		return model.Usuario{}, model.ErrUsuarioNoEncontrado
	}

	usuario := usuarios[idx]
	if !usuario.TienePassword() {
		return model.Usuario{}, model.ErrSinPassword
	}
	if !usuario.VerificarPassword(password) {
		return model.Usuario{}, model.ErrPasswordIncorrecto
	}

	return usuario, nil
}

func (g *GestorSistema) EstablecerPasswordInicial(nombre string, password string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	usuarios, err := g.store.CargarUsuarios()
	if err != nil {
		return err
	}

	idx := buscarUsuario(usuarios, nombre)
	if idx == -1 {
		return model.ErrUsuarioNoEncontrado
	}

	if err := usuarios[idx].EstablecerPassword(password); err != nil {
		return err
	}

	return g.store.GuardarUsuarios(usuarios)
}

func (g *GestorSistema) CambiarPassword(nombre string, actual string, nueva string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	usuarios, err := g.store.CargarUsuarios()
	if err != nil {
		return err
	}

	idx := buscarUsuario(usuarios, nombre)
	if idx == -1 {
		return model.ErrUsuarioNoEncontrado
	}

	if err := usuarios[idx].CambiarPassword(actual, nueva); err != nil {
		return err
	}

	return g.store.GuardarUsuarios(usuarios)
}

// ResetearPasswordUsuario clears a user's password on behalf of an admin,
// sending the account back to the pending state. Admin passwords cannot be
// reset this way.
func (g *GestorSistema) ResetearPasswordUsuario(nombreAdmin string, nombreUsuario string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	usuarios, err := g.store.CargarUsuarios()
	if err != nil {
		return err
	}

	idxAdmin := buscarUsuario(usuarios, nombreAdmin)
	if idxAdmin == -1 || !usuarios[idxAdmin].EsAdmin() {
		return model.ErrSoloAdmin
	}

	idx := buscarUsuario(usuarios, nombreUsuario)
	if idx == -1 {
		return model.ErrUsuarioNoEncontrado
	}
	if usuarios[idx].EsAdmin() {
		return model.ErrResetearAdmin
	}

	usuarios[idx].ResetearPassword()

	return g.store.GuardarUsuarios(usuarios)
}

// ExisteAdmin reports whether at least one admin account is registered.
// Bootstrap code uses it to decide whether the first admin must be created.
func (g *GestorSistema) ExisteAdmin() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	usuarios, err := g.store.CargarUsuarios()
	if err != nil {
		return false, err
	}

	for _, u := range usuarios {
		if u.EsAdmin() {
			return true, nil
		}
	}

	return false, nil
}

func (g *GestorSistema) ObtenerUsuario(nombre string) (model.Usuario, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	usuarios, err := g.store.CargarUsuarios()
	if err != nil {
		return model.Usuario{}, err
	}

	idx := buscarUsuario(usuarios, nombre)
	if idx == -1 {
		return model.Usuario{}, model.ErrUsuarioNoEncontrado
	}

	return usuarios[idx], nil
}

func (g *GestorSistema) ListarUsuarios() ([]model.Usuario, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.store.CargarUsuarios()
}

// Tareas

func (g *GestorSistema) CrearTarea(nombre string, descripcion string) (model.Tarea, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	tareas, err := g.store.CargarTareas()
	if err != nil {
		return model.Tarea{}, err
	}

	if buscarTarea(tareas, strings.TrimSpace(nombre)) != -1 {
		return model.Tarea{}, model.ErrTareaYaExiste
	}

	tarea, err := model.NewTarea(nombre, descripcion, nil)
	if err != nil {
		return model.Tarea{}, err
	}

	tareas = append(tareas, tarea)
	if err := g.store.GuardarTareas(tareas); err != nil {
		return model.Tarea{}, err
	}

	return tarea, nil
}

// AsignarUsuarioTarea links an existing user to an existing task. Both must
// exist; assigning the same user twice reports a conflict.
func (g *GestorSistema) AsignarUsuarioTarea(nombreTarea string, nombreUsuario string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	tareas, err := g.store.CargarTareas()
	if err != nil {
		return err
	}
	usuarios, err := g.store.CargarUsuarios()
	if err != nil {
		return err
	}

	idx := buscarTarea(tareas, nombreTarea)
	if idx == -1 {
		return model.ErrTareaNoEncontrada
	}
	if buscarUsuario(usuarios, nombreUsuario) == -1 {
		return model.ErrUsuarioNoEncontrado
	}

	if !tareas[idx].AgregarUsuario(nombreUsuario) {
		return model.ErrUsuarioYaAsignado
	}

	return g.store.GuardarTareas(tareas)
}

func (g *GestorSistema) DesasignarUsuarioTarea(nombreTarea string, nombreUsuario string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	tareas, err := g.store.CargarTareas()
	if err != nil {
		return err
	}

	idx := buscarTarea(tareas, nombreTarea)
	if idx == -1 {
		return model.ErrTareaNoEncontrada
	}

	if !tareas[idx].QuitarUsuario(nombreUsuario) {
		return model.ErrUsuarioNoAsignado
	}

	return g.store.GuardarTareas(tareas)
}

// FinalizarTarea marks a task as finished and appends it to the archive of
// finished tasks. The archive write is best effort: a failure there is
// logged and the task still finalizes.
func (g *GestorSistema) FinalizarTarea(nombre string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	tareas, err := g.store.CargarTareas()
	if err != nil {
		return err
	}

	idx := buscarTarea(tareas, nombre)
	if idx == -1 {
		return model.ErrTareaNoEncontrada
	}

	if !tareas[idx].Finalizar() {
		return model.ErrTareaYaFinalizada
	}

	if err := g.store.GuardarTareas(tareas); err != nil {
		return err
	}

	if err := g.store.ArchivarFinalizada(tareas[idx]); err != nil {
		slog.Warn("no se pudo archivar la tarea finalizada", "tarea", nombre, "error", err)
	}

	return nil
}

func (g *GestorSistema) ReactivarTarea(nombre string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	tareas, err := g.store.CargarTareas()
	if err != nil {
		return err
	}

	idx := buscarTarea(tareas, nombre)
	if idx == -1 {
		return model.ErrTareaNoEncontrada
	}

	if !tareas[idx].Reactivar() {
		return model.ErrTareaNoFinalizada
	}

	return g.store.GuardarTareas(tareas)
}

// EliminarTarea removes a task permanently. Only finished tasks can be
// deleted; pending work has to be finalized or reassigned first.
func (g *GestorSistema) EliminarTarea(nombre string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	tareas, err := g.store.CargarTareas()
	if err != nil {
		return err
	}

	idx := buscarTarea(tareas, nombre)
	if idx == -1 {
		return model.ErrTareaNoEncontrada
	}
	if !tareas[idx].EstaFinalizada() {
		return model.ErrTareaNoFinalizada
	}

	tareas = append(tareas[:idx], tareas[idx+1:]...)

	return g.store.GuardarTareas(tareas)
}

func (g *GestorSistema) AgregarComentarioTarea(nombreTarea string, comentario string, autor string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	tareas, err := g.store.CargarTareas()
	if err != nil {
		return err
	}

	idx := buscarTarea(tareas, nombreTarea)
	if idx == -1 {
		return model.ErrTareaNoEncontrada
	}

	if err := tareas[idx].AgregarComentario(comentario, autor); err != nil {
		return err
	}

	return g.store.GuardarTareas(tareas)
}

func (g *GestorSistema) ObtenerTarea(nombre string) (model.Tarea, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	tareas, err := g.store.CargarTareas()
	if err != nil {
		return model.Tarea{}, err
	}

	idx := buscarTarea(tareas, nombre)
	if idx == -1 {
		return model.Tarea{}, model.ErrTareaNoEncontrada
	}

	return tareas[idx], nil
}

func (g *GestorSistema) ListarTareas() ([]model.Tarea, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.store.CargarTareas()
}

func (g *GestorSistema) ObtenerTareasUsuario(nombreUsuario string, incluirFinalizadas bool) ([]model.Tarea, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	tareas, err := g.store.CargarTareas()
	if err != nil {
		return nil, err
	}

	propias := make([]model.Tarea, 0)
	for _, t := range tareas {
		if !t.EstaAsignado(nombreUsuario) {
			continue
		}
		if !incluirFinalizadas && t.EstaFinalizada() {
			continue
		}
		propias = append(propias, t)
	}

	return propias, nil
}

// ObtenerEstadisticasSistema counts users and tasks by category. It never
// fails: when the collections cannot be read it returns the zero counts with
// the Error field set, so dashboards degrade instead of breaking.
func (g *GestorSistema) ObtenerEstadisticasSistema() model.EstadisticasSistema {
	g.mu.Lock()
	defer g.mu.Unlock()

	usuarios, err := g.store.CargarUsuarios()
	if err != nil {
		return model.EstadisticasSistema{Error: "no se pudieron obtener las estadísticas"}
	}
	tareas, err := g.store.CargarTareas()
	if err != nil {
		return model.EstadisticasSistema{Error: "no se pudieron obtener las estadísticas"}
	}

	stats := model.EstadisticasSistema{}
	stats.Usuarios.Total = len(usuarios)
	for _, u := range usuarios {
		if u.EsAdmin() {
			stats.Usuarios.Admins++
		} else {
			stats.Usuarios.Users++
		}
		if !u.TienePassword() {
			stats.Usuarios.SinPassword++
		}
	}

	stats.Tareas.Total = len(tareas)
	for _, t := range tareas {
		if t.EstaFinalizada() {
			stats.Tareas.Finalizadas++
		} else {
			stats.Tareas.Pendientes++
		}
	}

	return stats
}

func buscarUsuario(usuarios []model.Usuario, nombre string) int {
	for i, u := range usuarios {
		if u.Nombre == nombre {
			return i
		}
	}
	return -1
}

func buscarTarea(tareas []model.Tarea, nombre string) int {
	for i, t := range tareas {
		if t.Nombre == nombre {
			return i
		}
	}
	return -1
}
