package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sistema-tareas/internal/model"
	"sistema-tareas/internal/service"
	"sistema-tareas/internal/storage"
	"sistema-tareas/internal/util"
)

var rootCmd = &cobra.Command{
	Use:   "tareas",
	Short: "Cliente de consola del sistema de tareas",
	Long: `Cliente de consola del sistema de gestión de tareas. Trabaja directamente
sobre los archivos de datos, sin pasar por la API REST, pensado para
administración local y scripts.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("TAREAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("usuarios", "./data/usuarios.json", "archivo de usuarios")
	rootCmd.PersistentFlags().String("tareas", "./data/tareas.json", "archivo de tareas")
	rootCmd.PersistentFlags().String("finalizadas", "./data/tareas_finalizadas.jsonl", "archivo de tareas finalizadas")
	rootCmd.PersistentFlags().Bool("json", false, "salida en JSON")
	rootCmd.PersistentFlags().String("actor", "", "usuario que ejecuta la operación")
	_ = viper.BindPFlag("usuarios", rootCmd.PersistentFlags().Lookup("usuarios"))
	_ = viper.BindPFlag("tareas", rootCmd.PersistentFlags().Lookup("tareas"))
	_ = viper.BindPFlag("finalizadas", rootCmd.PersistentFlags().Lookup("finalizadas"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("actor", rootCmd.PersistentFlags().Lookup("actor"))
}

func registerCommands() {
	rootCmd.AddCommand(usuarioCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(passwordCmd())
	rootCmd.AddCommand(tareaCmd())
	rootCmd.AddCommand(statsCmd())
}

func usuarioCmd() *cobra.Command {
	usuario := &cobra.Command{Use: "usuario", Short: "Gestionar usuarios"}
	usuario.AddCommand(usuarioCrearCmd())
	usuario.AddCommand(usuarioCrearAdminCmd())
	usuario.AddCommand(usuarioEliminarCmd())
	usuario.AddCommand(usuarioListarCmd())
	usuario.AddCommand(usuarioResetearPasswordCmd())
	return usuario
}

func usuarioCrearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crear <nombre>",
		Short: "Crear un usuario sin contraseña",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				u, err := g.CrearUsuario(args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(u.Publico())
				}
				fmt.Printf("usuario %q creado; debe establecer su contraseña antes de iniciar sesión\n", u.Nombre)
				return nil
			})
		},
	}
	return cmd
}

func usuarioCrearAdminCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "crear-admin <nombre>",
		Short: "Crear un administrador",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				u, err := g.CrearAdmin(args[0], password)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(u.Publico())
				}
				fmt.Printf("administrador %q creado\n", u.Nombre)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "contraseña del administrador")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func usuarioEliminarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eliminar <nombre>",
		Short: "Eliminar un usuario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				if err := g.EliminarUsuario(args[0]); err != nil {
					return err
				}
				return printOK(fmt.Sprintf("usuario %q eliminado", args[0]))
			})
		},
	}
	return cmd
}

func usuarioListarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listar",
		Short: "Listar usuarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				usuarios, err := g.ListarUsuarios()
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					publicos := make([]model.UsuarioPublico, 0, len(usuarios))
					for _, u := range usuarios {
						publicos = append(publicos, u.Publico())
					}
					return printJSON(publicos)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Nombre", "Rol", "Contraseña"})
				for _, u := range usuarios {
					estado := "pendiente"
					if u.TienePassword() {
						estado = "establecida"
					}
					tw.AppendRow(table.Row{u.Nombre, u.Rol, estado})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func usuarioResetearPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resetear-password <nombre>",
		Short: "Borrar la contraseña de un usuario (requiere --actor admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor := viper.GetString("actor")
			if actor == "" {
				return fmt.Errorf("--actor requerido")
			}
			return withGestor(func(g *service.GestorSistema) error {
				if err := g.ResetearPasswordUsuario(actor, args[0]); err != nil {
					return err
				}
				return printOK(fmt.Sprintf("contraseña de %q reseteada; el usuario debe establecer una nueva", args[0]))
			})
		},
	}
	return cmd
}

func loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <nombre>",
		Short: "Verificar credenciales de un usuario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				u, err := g.AutenticarUsuario(args[0], password)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(u.Publico())
				}
				fmt.Printf("credenciales válidas: %s (%s)\n", u.Nombre, u.Rol)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "contraseña")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func passwordCmd() *cobra.Command {
	password := &cobra.Command{Use: "password", Short: "Gestionar contraseñas"}
	password.AddCommand(passwordEstablecerCmd())
	password.AddCommand(passwordCambiarCmd())
	password.AddCommand(passwordGenerarCmd())
	return password
}

func passwordEstablecerCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "establecer <nombre>",
		Short: "Establecer la contraseña inicial de un usuario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				if err := g.EstablecerPasswordInicial(args[0], password); err != nil {
					return err
				}
				return printOK(fmt.Sprintf("contraseña de %q establecida", args[0]))
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "contraseña nueva")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func passwordCambiarCmd() *cobra.Command {
	var actual, nueva string
	cmd := &cobra.Command{
		Use:   "cambiar <nombre>",
		Short: "Cambiar la contraseña de un usuario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				if err := g.CambiarPassword(args[0], actual, nueva); err != nil {
					return err
				}
				return printOK(fmt.Sprintf("contraseña de %q actualizada", args[0]))
			})
		},
	}
	cmd.Flags().StringVar(&actual, "actual", "", "contraseña actual")
	cmd.Flags().StringVar(&nueva, "nueva", "", "contraseña nueva")
	_ = cmd.MarkFlagRequired("actual")
	_ = cmd.MarkFlagRequired("nueva")
	return cmd
}

func passwordGenerarCmd() *cobra.Command {
	var longitud int
	var sinSimbolos bool
	cmd := &cobra.Command{
		Use:   "generar",
		Short: "Generar una contraseña aleatoria",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := util.GenerarPassword(longitud, !sinSimbolos)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(map[string]string{"password": password})
			}
			fmt.Println(password)
			return nil
		},
	}
	cmd.Flags().IntVar(&longitud, "longitud", 12, "longitud de la contraseña")
	cmd.Flags().BoolVar(&sinSimbolos, "sin-simbolos", false, "generar solo letras y dígitos")
	return cmd
}

func tareaCmd() *cobra.Command {
	tarea := &cobra.Command{Use: "tarea", Short: "Gestionar tareas"}
	tarea.AddCommand(tareaCrearCmd())
	tarea.AddCommand(tareaListarCmd())
	tarea.AddCommand(tareaVerCmd())
	tarea.AddCommand(tareaAsignarCmd())
	tarea.AddCommand(tareaDesasignarCmd())
	tarea.AddCommand(tareaFinalizarCmd())
	tarea.AddCommand(tareaReactivarCmd())
	tarea.AddCommand(tareaComentarCmd())
	tarea.AddCommand(tareaEliminarCmd())
	tarea.AddCommand(tareaMiasCmd())
	return tarea
}

func tareaCrearCmd() *cobra.Command {
	var descripcion string
	cmd := &cobra.Command{
		Use:   "crear <nombre>",
		Short: "Crear una tarea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				t, err := g.CrearTarea(args[0], descripcion)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(t)
				}
				fmt.Printf("tarea %q creada\n", t.Nombre)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&descripcion, "descripcion", "", "descripción de la tarea")
	_ = cmd.MarkFlagRequired("descripcion")
	return cmd
}

func tareaListarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listar",
		Short: "Listar tareas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				tareas, err := g.ListarTareas()
				if err != nil {
					return err
				}
				return renderTareas(tareas)
			})
		},
	}
	return cmd
}

func tareaVerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ver <nombre>",
		Short: "Ver el detalle de una tarea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				t, err := g.ObtenerTarea(args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(t)
				}
				asignados := "nadie"
				if len(t.UsuariosAsignados) > 0 {
					asignados = strings.Join(t.UsuariosAsignados, ", ")
				}
				fmt.Printf("Tarea:       %s\n", t.Nombre)
				fmt.Printf("Descripción: %s\n", t.Descripcion)
				fmt.Printf("Estado:      %s\n", t.Estado)
				fmt.Printf("Creada:      %s\n", t.FechaCreacion.Format("2006-01-02 15:04"))
				fmt.Printf("Asignados:   %s\n", asignados)
				if len(t.Comentarios) == 0 {
					fmt.Println("Comentarios: ninguno")
					return nil
				}
				fmt.Println("Comentarios:")
				for _, c := range t.Comentarios {
					fmt.Printf("  [%s] %s: %s\n", c.Fecha.Format("2006-01-02 15:04"), c.Autor, c.Texto)
				}
				return nil
			})
		},
	}
	return cmd
}

func tareaAsignarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asignar <tarea> <usuario>",
		Short: "Asignar un usuario a una tarea",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				if err := g.AsignarUsuarioTarea(args[0], args[1]); err != nil {
					return err
				}
				return printOK(fmt.Sprintf("usuario %q asignado a %q", args[1], args[0]))
			})
		},
	}
	return cmd
}

func tareaDesasignarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "desasignar <tarea> <usuario>",
		Short: "Quitar un usuario de una tarea",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				if err := g.DesasignarUsuarioTarea(args[0], args[1]); err != nil {
					return err
				}
				return printOK(fmt.Sprintf("usuario %q desasignado de %q", args[1], args[0]))
			})
		},
	}
	return cmd
}

func tareaFinalizarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finalizar <nombre>",
		Short: "Marcar una tarea como finalizada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				if err := g.FinalizarTarea(args[0]); err != nil {
					return err
				}
				return printOK(fmt.Sprintf("tarea %q finalizada", args[0]))
			})
		},
	}
	return cmd
}

func tareaReactivarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reactivar <nombre>",
		Short: "Devolver una tarea finalizada a pendiente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				if err := g.ReactivarTarea(args[0]); err != nil {
					return err
				}
				return printOK(fmt.Sprintf("tarea %q reactivada", args[0]))
			})
		},
	}
	return cmd
}

func tareaComentarCmd() *cobra.Command {
	var texto, autor string
	cmd := &cobra.Command{
		Use:   "comentar <nombre>",
		Short: "Agregar un comentario a una tarea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if autor == "" {
				autor = viper.GetString("actor")
			}
			if autor == "" {
				return fmt.Errorf("--autor o --actor requerido")
			}
			return withGestor(func(g *service.GestorSistema) error {
				if err := g.AgregarComentarioTarea(args[0], texto, autor); err != nil {
					return err
				}
				return printOK(fmt.Sprintf("comentario agregado a %q", args[0]))
			})
		},
	}
	cmd.Flags().StringVar(&texto, "texto", "", "texto del comentario")
	cmd.Flags().StringVar(&autor, "autor", "", "autor del comentario (por defecto --actor)")
	_ = cmd.MarkFlagRequired("texto")
	return cmd
}

func tareaEliminarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eliminar <nombre>",
		Short: "Eliminar una tarea finalizada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				if err := g.EliminarTarea(args[0]); err != nil {
					return err
				}
				return printOK(fmt.Sprintf("tarea %q eliminada", args[0]))
			})
		},
	}
	return cmd
}

func tareaMiasCmd() *cobra.Command {
	var pendientes bool
	cmd := &cobra.Command{
		Use:   "mias",
		Short: "Listar las tareas asignadas a --actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor := viper.GetString("actor")
			if actor == "" {
				return fmt.Errorf("--actor requerido")
			}
			return withGestor(func(g *service.GestorSistema) error {
				tareas, err := g.ObtenerTareasUsuario(actor, !pendientes)
				if err != nil {
					return err
				}
				return renderTareas(tareas)
			})
		},
	}
	cmd.Flags().BoolVar(&pendientes, "pendientes", false, "mostrar solo tareas pendientes")
	return cmd
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Mostrar estadísticas del sistema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGestor(func(g *service.GestorSistema) error {
				stats := g.ObtenerEstadisticasSistema()
				if viper.GetBool("json") {
					return printJSON(stats)
				}
				if stats.Error != "" {
					return fmt.Errorf("%s", stats.Error)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Usuarios", "Admins", "Users", "Sin contraseña"})
				tw.AppendRow(table.Row{stats.Usuarios.Total, stats.Usuarios.Admins, stats.Usuarios.Users, stats.Usuarios.SinPassword})
				tw.Render()
				tw = table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Tareas", "Pendientes", "Finalizadas"})
				tw.AppendRow(table.Row{stats.Tareas.Total, stats.Tareas.Pendientes, stats.Tareas.Finalizadas})
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

// --- helpers ---

func withGestor(fn func(*service.GestorSistema) error) error {
	store, err := storage.New(
		viper.GetString("usuarios"),
		viper.GetString("tareas"),
		viper.GetString("finalizadas"),
	)
	if err != nil {
		return err
	}
	return fn(service.NewGestorSistema(store))
}

func renderTareas(tareas []model.Tarea) error {
	if viper.GetBool("json") {
		return printJSON(tareas)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Nombre", "Estado", "Asignados", "Comentarios", "Creada"})
	for _, t := range tareas {
		tw.AppendRow(table.Row{
			t.Nombre,
			t.Estado,
			strings.Join(t.UsuariosAsignados, ", "),
			len(t.Comentarios),
			t.FechaCreacion.Format("2006-01-02 15:04"),
		})
	}
	tw.Render()
	return nil
}

func printOK(mensaje string) error {
	if viper.GetBool("json") {
		return printJSON(map[string]any{"ok": true, "mensaje": mensaje})
	}
	fmt.Println(mensaje)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
