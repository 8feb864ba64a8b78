package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"sistema-tareas/internal/model"
)

// Store persists the user and task collections as whole JSON documents on
// disk. Every save rewrites the complete collection through a temp file plus
// rename, so a failed write never leaves a half-written target behind.
type Store struct {
	usuariosPath    string
	tareasPath      string
	finalizadasPath string
	mu              sync.Mutex
}

func New(usuariosPath string, tareasPath string, finalizadasPath string) (*Store, error) {
	for _, path := range []string{usuariosPath, tareasPath, finalizadasPath} {
		if path == "" {
			return nil, errors.New("storage: data file path is required")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory for %q: %w", path, err)
		}
	}

	return &Store{
		usuariosPath:    usuariosPath,
		tareasPath:      tareasPath,
		finalizadasPath: finalizadasPath,
	}, nil
}

// CargarUsuarios reads the full user collection. A missing file is not an
// error: it means nothing has been saved yet and yields an empty collection.
func (s *Store) CargarUsuarios() ([]model.Usuario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var usuarios []model.Usuario
	if err := s.loadJSON(s.usuariosPath, &usuarios); err != nil {
		return nil, fmt.Errorf("load usuarios: %w", err)
	}
	if usuarios == nil {
		usuarios = []model.Usuario{}
	}

	return usuarios, nil
}

func (s *Store) GuardarUsuarios(usuarios []model.Usuario) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveJSON(s.usuariosPath, usuarios); err != nil {
		return fmt.Errorf("save usuarios: %w", err)
	}

	return nil
}

func (s *Store) CargarTareas() ([]model.Tarea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tareas []model.Tarea
	if err := s.loadJSON(s.tareasPath, &tareas); err != nil {
		return nil, fmt.Errorf("load tareas: %w", err)
	}
	if tareas == nil {
		tareas = []model.Tarea{}
	}

	return tareas, nil
}

func (s *Store) GuardarTareas(tareas []model.Tarea) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveJSON(s.tareasPath, tareas); err != nil {
		return fmt.Errorf("save tareas: %w", err)
	}

	return nil
}

// ArchivarFinalizada appends the finished task as one JSON line to the
// archive file. The archive is append-only history, it is never read back
// by the system.
func (s *Store) ArchivarFinalizada(tarea model.Tarea) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(tarea)
	if err != nil {
		return fmt.Errorf("marshal tarea finalizada: %w", err)
	}

	f, err := os.OpenFile(s.finalizadasPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open archivo de finalizadas: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append tarea finalizada: %w", err)
	}

	return nil
}

func (s *Store) loadJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}

	return json.Unmarshal(data, target)
}

func (s *Store) saveJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}

	return writeFileAtomic(path, data)
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over the target, so readers either see the old bytes or the
// new ones, never a partial write.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
