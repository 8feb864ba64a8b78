package model

import (
	"fmt"
	"strings"
	"time"
)

type Estado string

const (
	EstadoPendiente  Estado = "pendiente"
	EstadoFinalizada Estado = "finalizada"
)

// Comentario is one entry of a task's append-only comment log. Entries are
// never edited or removed once appended.
type Comentario struct {
	Texto string    `json:"texto"`
	Autor string    `json:"autor"`
	Fecha time.Time `json:"fecha"`
}

type Tarea struct {
	Nombre            string       `json:"nombre"`
	Descripcion       string       `json:"descripcion"`
	Estado            Estado       `json:"estado"`
	FechaCreacion     time.Time    `json:"fecha_creacion"`
	UsuariosAsignados []string     `json:"usuarios_asignados"`
	Comentarios       []Comentario `json:"comentarios"`
}

func NewTarea(nombre string, descripcion string, usuarios []string) (Tarea, error) {
	nombre = strings.TrimSpace(nombre)
	descripcion = strings.TrimSpace(descripcion)
	if nombre == "" {
		return Tarea{}, fmt.Errorf("%w: el nombre de la tarea no puede estar vacío", ErrValidacion)
	}
	if descripcion == "" {
		return Tarea{}, fmt.Errorf("%w: la descripción de la tarea no puede estar vacía", ErrValidacion)
	}

	t := Tarea{
		Nombre:            nombre,
		Descripcion:       descripcion,
		Estado:            EstadoPendiente,
		FechaCreacion:     time.Now().UTC(),
		UsuariosAsignados: []string{},
		Comentarios:       []Comentario{},
	}
	for _, usuario := range usuarios {
		t.AgregarUsuario(usuario)
	}

	return t, nil
}

// AgregarUsuario assigns a user, reporting whether the set changed so
// callers can tell "newly assigned" from "already assigned".
func (t *Tarea) AgregarUsuario(usuario string) bool {
	usuario = strings.TrimSpace(usuario)
	if usuario == "" {
		return false
	}

	for _, asignado := range t.UsuariosAsignados {
		if asignado == usuario {
			return false
		}
	}
	t.UsuariosAsignados = append(t.UsuariosAsignados, usuario)

	return true
}

// QuitarUsuario removes an assignment, reporting whether the set changed.
func (t *Tarea) QuitarUsuario(usuario string) bool {
	for i, asignado := range t.UsuariosAsignados {
		if asignado == usuario {
			t.UsuariosAsignados = append(t.UsuariosAsignados[:i], t.UsuariosAsignados[i+1:]...)
			return true
		}
	}

	return false
}

func (t *Tarea) EstaAsignado(usuario string) bool {
	for _, asignado := range t.UsuariosAsignados {
		if asignado == usuario {
			return true
		}
	}
	return false
}

// AgregarComentario appends an immutable (texto, autor, fecha) entry with a
// server-generated timestamp. It does not check that autor is assigned.
func (t *Tarea) AgregarComentario(texto string, autor string) error {
	texto = strings.TrimSpace(texto)
	autor = strings.TrimSpace(autor)
	if texto == "" {
		return fmt.Errorf("%w: el comentario no puede estar vacío", ErrValidacion)
	}
	if autor == "" {
		return fmt.Errorf("%w: el autor del comentario no puede estar vacío", ErrValidacion)
	}

	t.Comentarios = append(t.Comentarios, Comentario{
		Texto: texto,
		Autor: autor,
		Fecha: time.Now().UTC(),
	})

	return nil
}

// Finalizar marks the task finalizada. The second call on the same task
// reports false; callers surface that as a failure, not a silent no-op.
func (t *Tarea) Finalizar() bool {
	if t.Estado == EstadoFinalizada {
		return false
	}
	t.Estado = EstadoFinalizada

	return true
}

// Reactivar is the explicit escape hatch back to pendiente.
func (t *Tarea) Reactivar() bool {
	if t.Estado == EstadoPendiente {
		return false
	}
	t.Estado = EstadoPendiente

	return true
}

func (t *Tarea) EstaFinalizada() bool {
	return t.Estado == EstadoFinalizada
}

// ResumenTarea is the summary view used by listings.
type ResumenTarea struct {
	Nombre            string    `json:"nombre"`
	Descripcion       string    `json:"descripcion"`
	Estado            Estado    `json:"estado"`
	FechaCreacion     time.Time `json:"fecha_creacion"`
	UsuariosAsignados []string  `json:"usuarios_asignados"`
	TotalComentarios  int       `json:"total_comentarios"`
	EstaFinalizada    bool      `json:"esta_finalizada"`
}

func (t *Tarea) Resumen() ResumenTarea {
	usuarios := make([]string, len(t.UsuariosAsignados))
	copy(usuarios, t.UsuariosAsignados)

	return ResumenTarea{
		Nombre:            t.Nombre,
		Descripcion:       t.Descripcion,
		Estado:            t.Estado,
		FechaCreacion:     t.FechaCreacion,
		UsuariosAsignados: usuarios,
		TotalComentarios:  len(t.Comentarios),
		EstaFinalizada:    t.EstaFinalizada(),
	}
}
