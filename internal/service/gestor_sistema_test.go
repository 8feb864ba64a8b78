package service

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sistema-tareas/internal/model"
	"sistema-tareas/internal/storage"
)

func newTestGestor(t *testing.T) *GestorSistema {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.New(
		filepath.Join(dir, "usuarios.json"),
		filepath.Join(dir, "tareas.json"),
		filepath.Join(dir, "finalizadas.jsonl"),
	)
	require.NoError(t, err)

	return NewGestorSistema(store)
}

func TestGestor_CrearUsuario(t *testing.T) {
	gestor := newTestGestor(t)

	t.Run("created pending", func(t *testing.T) {
		usuario, err := gestor.CrearUsuario("ana")
		require.NoError(t, err)

		assert.Equal(t, "ana", usuario.Nombre)
		assert.Equal(t, model.RolUser, usuario.Rol)
		assert.False(t, usuario.TienePassword())
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		_, err := gestor.CrearUsuario("ana")
		assert.ErrorIs(t, err, model.ErrUsuarioYaExiste)
	})

	t.Run("invalid names rejected", func(t *testing.T) {
		for _, nombre := range []string{"ab", "con espacios", "mal-nombre", ""} {
			_, err := gestor.CrearUsuario(nombre)
			assert.ErrorIs(t, err, model.ErrValidacion, "nombre %q", nombre)
		}
	})
}

func TestGestor_CrearAdmin(t *testing.T) {
	gestor := newTestGestor(t)

	t.Run("requires password", func(t *testing.T) {
		_, err := gestor.CrearAdmin("jefe", "")
		assert.ErrorIs(t, err, model.ErrValidacion)
	})

	t.Run("created with role admin", func(t *testing.T) {
		admin, err := gestor.CrearAdmin("jefe", "clave123")
		require.NoError(t, err)

		assert.True(t, admin.EsAdmin())
		assert.True(t, admin.TienePassword())
	})

	t.Run("name conflicts with any user", func(t *testing.T) {
		_, err := gestor.CrearUsuario("pepe")
		require.NoError(t, err)

		_, err = gestor.CrearAdmin("pepe", "clave123")
		assert.ErrorIs(t, err, model.ErrUsuarioYaExiste)
	})
}

func TestGestor_ExisteAdmin(t *testing.T) {
	gestor := newTestGestor(t)

	existe, err := gestor.ExisteAdmin()
	require.NoError(t, err)
	assert.False(t, existe)

	_, err = gestor.CrearUsuario("ana")
	require.NoError(t, err)

	existe, err = gestor.ExisteAdmin()
	require.NoError(t, err)
	assert.False(t, existe, "regular users do not count")

	_, err = gestor.CrearAdmin("jefe", "clave123")
	require.NoError(t, err)

	existe, err = gestor.ExisteAdmin()
	require.NoError(t, err)
	assert.True(t, existe)
}

func TestGestor_EliminarUsuario(t *testing.T) {
	gestor := newTestGestor(t)

	_, err := gestor.CrearUsuario("ana")
	require.NoError(t, err)
	_, err = gestor.CrearAdmin("jefe", "clave123")
	require.NoError(t, err)

	t.Run("unknown user", func(t *testing.T) {
		assert.ErrorIs(t, gestor.EliminarUsuario("nadie"), model.ErrUsuarioNoEncontrado)
	})

	t.Run("admins are protected", func(t *testing.T) {
		assert.ErrorIs(t, gestor.EliminarUsuario("jefe"), model.ErrEliminarAdmin)
	})

	t.Run("removes regular user", func(t *testing.T) {
		require.NoError(t, gestor.EliminarUsuario("ana"))

		_, err := gestor.ObtenerUsuario("ana")
		assert.ErrorIs(t, err, model.ErrUsuarioNoEncontrado)
	})
}

func TestGestor_AutenticarUsuario(t *testing.T) {
	gestor := newTestGestor(t)

	_, err := gestor.CrearUsuario("ana")
	require.NoError(t, err)
	_, err = gestor.CrearAdmin("jefe", "clave123")
	require.NoError(t, err)

	t.Run("unknown user", func(t *testing.T) {
		_, err := gestor.AutenticarUsuario("nadie", "x")
		assert.ErrorIs(t, err, model.ErrUsuarioNoEncontrado)
	})

	t.Run("pending user yields sin password", func(t *testing.T) {
		_, err := gestor.AutenticarUsuario("ana", "loquesea")
		assert.ErrorIs(t, err, model.ErrSinPassword)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := gestor.AutenticarUsuario("jefe", "incorrecta")
		assert.ErrorIs(t, err, model.ErrPasswordIncorrecto)
	})

	t.Run("success", func(t *testing.T) {
		usuario, err := gestor.AutenticarUsuario("jefe", "clave123")
		require.NoError(t, err)
		assert.Equal(t, "jefe", usuario.Nombre)
	})
}

func TestGestor_PasswordLifecycle(t *testing.T) {
	gestor := newTestGestor(t)

	_, err := gestor.CrearUsuario("ana")
	require.NoError(t, err)

	// Pending until the initial password is set.
	_, err = gestor.AutenticarUsuario("ana", "primera")
	require.ErrorIs(t, err, model.ErrSinPassword)

	require.NoError(t, gestor.EstablecerPasswordInicial("ana", "primera"))

	_, err = gestor.AutenticarUsuario("ana", "primera")
	require.NoError(t, err)

	// Setting again is a conflict.
	err = gestor.EstablecerPasswordInicial("ana", "otra")
	assert.ErrorIs(t, err, model.ErrPasswordYaEstablecido)

	// Change requires the current password and a different new one.
	assert.ErrorIs(t, gestor.CambiarPassword("ana", "mala", "segunda"), model.ErrPasswordIncorrecto)
	assert.ErrorIs(t, gestor.CambiarPassword("ana", "primera", "primera"), model.ErrValidacion)
	require.NoError(t, gestor.CambiarPassword("ana", "primera", "segunda"))

	_, err = gestor.AutenticarUsuario("ana", "segunda")
	require.NoError(t, err)
	_, err = gestor.AutenticarUsuario("ana", "primera")
	assert.ErrorIs(t, err, model.ErrPasswordIncorrecto)
}

func TestGestor_ResetearPasswordUsuario(t *testing.T) {
	gestor := newTestGestor(t)

	_, err := gestor.CrearAdmin("jefe", "clave123")
	require.NoError(t, err)
	_, err = gestor.CrearAdmin("jefa", "clave123")
	require.NoError(t, err)
	_, err = gestor.CrearUsuario("ana")
	require.NoError(t, err)
	require.NoError(t, gestor.EstablecerPasswordInicial("ana", "secreta"))

	t.Run("actor must be admin", func(t *testing.T) {
		assert.ErrorIs(t, gestor.ResetearPasswordUsuario("ana", "ana"), model.ErrSoloAdmin)
		assert.ErrorIs(t, gestor.ResetearPasswordUsuario("nadie", "ana"), model.ErrSoloAdmin)
	})

	t.Run("admin targets are protected", func(t *testing.T) {
		assert.ErrorIs(t, gestor.ResetearPasswordUsuario("jefe", "jefa"), model.ErrResetearAdmin)
	})

	t.Run("unknown target", func(t *testing.T) {
		assert.ErrorIs(t, gestor.ResetearPasswordUsuario("jefe", "nadie"), model.ErrUsuarioNoEncontrado)
	})

	t.Run("reset returns user to pending", func(t *testing.T) {
		require.NoError(t, gestor.ResetearPasswordUsuario("jefe", "ana"))

		_, err := gestor.AutenticarUsuario("ana", "secreta")
		assert.ErrorIs(t, err, model.ErrSinPassword)
	})
}

func TestGestor_CrearTarea(t *testing.T) {
	gestor := newTestGestor(t)

	tarea, err := gestor.CrearTarea("deploy", "subir release")
	require.NoError(t, err)
	assert.Equal(t, model.EstadoPendiente, tarea.Estado)

	_, err = gestor.CrearTarea("deploy", "da igual")
	assert.ErrorIs(t, err, model.ErrTareaYaExiste)

	_, err = gestor.CrearTarea("  ", "sin nombre")
	assert.ErrorIs(t, err, model.ErrValidacion)
}

func TestGestor_Asignaciones(t *testing.T) {
	gestor := newTestGestor(t)

	_, err := gestor.CrearUsuario("ana")
	require.NoError(t, err)
	_, err = gestor.CrearTarea("deploy", "da igual")
	require.NoError(t, err)

	t.Run("task must exist", func(t *testing.T) {
		assert.ErrorIs(t, gestor.AsignarUsuarioTarea("nada", "ana"), model.ErrTareaNoEncontrada)
	})

	t.Run("user must exist", func(t *testing.T) {
		assert.ErrorIs(t, gestor.AsignarUsuarioTarea("deploy", "nadie"), model.ErrUsuarioNoEncontrado)
	})

	t.Run("assign persists", func(t *testing.T) {
		require.NoError(t, gestor.AsignarUsuarioTarea("deploy", "ana"))

		tarea, err := gestor.ObtenerTarea("deploy")
		require.NoError(t, err)
		assert.True(t, tarea.EstaAsignado("ana"))
	})

	t.Run("double assign conflicts", func(t *testing.T) {
		assert.ErrorIs(t, gestor.AsignarUsuarioTarea("deploy", "ana"), model.ErrUsuarioYaAsignado)
	})

	t.Run("unassign persists", func(t *testing.T) {
		require.NoError(t, gestor.DesasignarUsuarioTarea("deploy", "ana"))

		tarea, err := gestor.ObtenerTarea("deploy")
		require.NoError(t, err)
		assert.False(t, tarea.EstaAsignado("ana"))
	})

	t.Run("unassign when not assigned", func(t *testing.T) {
		assert.ErrorIs(t, gestor.DesasignarUsuarioTarea("deploy", "ana"), model.ErrUsuarioNoAsignado)
	})
}

func TestGestor_FinalizarTarea(t *testing.T) {
	gestor := newTestGestor(t)

	_, err := gestor.CrearTarea("deploy", "da igual")
	require.NoError(t, err)

	t.Run("unknown task", func(t *testing.T) {
		assert.ErrorIs(t, gestor.FinalizarTarea("nada"), model.ErrTareaNoEncontrada)
	})

	t.Run("finalize persists state", func(t *testing.T) {
		require.NoError(t, gestor.FinalizarTarea("deploy"))

		tarea, err := gestor.ObtenerTarea("deploy")
		require.NoError(t, err)
		assert.True(t, tarea.EstaFinalizada())
	})

	t.Run("repeat finalize conflicts", func(t *testing.T) {
		assert.ErrorIs(t, gestor.FinalizarTarea("deploy"), model.ErrTareaYaFinalizada)
	})
}

func TestGestor_ReactivarTarea(t *testing.T) {
	gestor := newTestGestor(t)

	_, err := gestor.CrearTarea("deploy", "da igual")
	require.NoError(t, err)

	assert.ErrorIs(t, gestor.ReactivarTarea("nada"), model.ErrTareaNoEncontrada)
	assert.ErrorIs(t, gestor.ReactivarTarea("deploy"), model.ErrTareaNoFinalizada)

	require.NoError(t, gestor.FinalizarTarea("deploy"))
	require.NoError(t, gestor.ReactivarTarea("deploy"))

	tarea, err := gestor.ObtenerTarea("deploy")
	require.NoError(t, err)
	assert.Equal(t, model.EstadoPendiente, tarea.Estado)
}

func TestGestor_EliminarTarea(t *testing.T) {
	gestor := newTestGestor(t)

	_, err := gestor.CrearTarea("deploy", "da igual")
	require.NoError(t, err)

	t.Run("unknown task", func(t *testing.T) {
		assert.ErrorIs(t, gestor.EliminarTarea("nada"), model.ErrTareaNoEncontrada)
	})

	t.Run("pending tasks cannot be deleted", func(t *testing.T) {
		assert.ErrorIs(t, gestor.EliminarTarea("deploy"), model.ErrTareaNoFinalizada)
	})

	t.Run("finalized tasks can", func(t *testing.T) {
		require.NoError(t, gestor.FinalizarTarea("deploy"))
		require.NoError(t, gestor.EliminarTarea("deploy"))

		_, err := gestor.ObtenerTarea("deploy")
		assert.ErrorIs(t, err, model.ErrTareaNoEncontrada)
	})
}

func TestGestor_Comentarios(t *testing.T) {
	gestor := newTestGestor(t)

	_, err := gestor.CrearTarea("deploy", "da igual")
	require.NoError(t, err)

	assert.ErrorIs(t, gestor.AgregarComentarioTarea("nada", "hola", "ana"), model.ErrTareaNoEncontrada)

	// Commenting does not require being assigned.
	require.NoError(t, gestor.AgregarComentarioTarea("deploy", "sin asignar y comento", "bob"))

	tarea, err := gestor.ObtenerTarea("deploy")
	require.NoError(t, err)
	require.Len(t, tarea.Comentarios, 1)
	assert.Equal(t, "bob", tarea.Comentarios[0].Autor)
}

func TestGestor_ObtenerTareasUsuario(t *testing.T) {
	gestor := newTestGestor(t)

	_, err := gestor.CrearUsuario("ana")
	require.NoError(t, err)

	for _, nombre := range []string{"uno", "dos", "tres"} {
		_, err := gestor.CrearTarea(nombre, "da igual")
		require.NoError(t, err)
		require.NoError(t, gestor.AsignarUsuarioTarea(nombre, "ana"))
	}
	_, err = gestor.CrearTarea("ajena", "da igual")
	require.NoError(t, err)
	require.NoError(t, gestor.FinalizarTarea("dos"))

	t.Run("all assigned tasks", func(t *testing.T) {
		tareas, err := gestor.ObtenerTareasUsuario("ana", true)
		require.NoError(t, err)
		assert.Len(t, tareas, 3)
	})

	t.Run("pending only", func(t *testing.T) {
		tareas, err := gestor.ObtenerTareasUsuario("ana", false)
		require.NoError(t, err)

		require.Len(t, tareas, 2)
		for _, tarea := range tareas {
			assert.False(t, tarea.EstaFinalizada())
		}
	})

	t.Run("no assignments", func(t *testing.T) {
		tareas, err := gestor.ObtenerTareasUsuario("nadie", true)
		require.NoError(t, err)
		assert.Empty(t, tareas)
	})
}

func TestGestor_Estadisticas(t *testing.T) {
	gestor := newTestGestor(t)

	_, err := gestor.CrearAdmin("jefe", "clave123")
	require.NoError(t, err)
	_, err = gestor.CrearUsuario("ana")
	require.NoError(t, err)
	_, err = gestor.CrearUsuario("bob")
	require.NoError(t, err)
	require.NoError(t, gestor.EstablecerPasswordInicial("ana", "pw"))

	for _, nombre := range []string{"uno", "dos", "tres"} {
		_, err := gestor.CrearTarea(nombre, "da igual")
		require.NoError(t, err)
	}
	require.NoError(t, gestor.FinalizarTarea("uno"))

	stats := gestor.ObtenerEstadisticasSistema()
	assert.Empty(t, stats.Error)

	assert.Equal(t, 3, stats.Usuarios.Total)
	assert.Equal(t, 1, stats.Usuarios.Admins)
	assert.Equal(t, 2, stats.Usuarios.Users)
	assert.Equal(t, 1, stats.Usuarios.SinPassword)

	assert.Equal(t, 3, stats.Tareas.Total)
	assert.Equal(t, 2, stats.Tareas.Pendientes)
	assert.Equal(t, 1, stats.Tareas.Finalizadas)
}

func TestGestor_MutationsVisibleAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	usuarios := filepath.Join(dir, "usuarios.json")
	tareas := filepath.Join(dir, "tareas.json")
	finalizadas := filepath.Join(dir, "finalizadas.jsonl")

	storeA, err := storage.New(usuarios, tareas, finalizadas)
	require.NoError(t, err)
	storeB, err := storage.New(usuarios, tareas, finalizadas)
	require.NoError(t, err)

	gestorA := NewGestorSistema(storeA)
	gestorB := NewGestorSistema(storeB)

	_, err = gestorA.CrearUsuario("ana")
	require.NoError(t, err)

	// A second gestor over the same files sees the mutation because every
	// operation reloads from disk.
	usuario, err := gestorB.ObtenerUsuario("ana")
	require.NoError(t, err)
	assert.Equal(t, "ana", usuario.Nombre)
}

func TestGestor_ConcurrentCreates(t *testing.T) {
	gestor := newTestGestor(t)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := gestor.CrearTarea(fmt.Sprintf("tarea-%02d", i), "da igual")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	tareas, err := gestor.ListarTareas()
	require.NoError(t, err)
	assert.Len(t, tareas, n, "every concurrent create must survive the read-modify-write cycle")
}
