// Command visitas bundles the operational chores around the backend:
// inspecting and generating the lookup tables, bootstrapping the database
// schema, emitting signed evidence URLs and launching the binaries.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/verifik-ops/visitas-backend/internal/config"
	"github.com/verifik-ops/visitas-backend/internal/database"
	"github.com/verifik-ops/visitas-backend/internal/signing"
	"github.com/verifik-ops/visitas-backend/internal/tablas"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "visitas: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "visitas",
		Short:        "Herramientas de operación del backend de visitas",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newTablasCmd(),
		newMigrarCmd(),
		newFirmarCmd(),
		newRunCmd(),
	)
	return cmd
}

func newTablasCmd() *cobra.Command {
	var archivo string
	cmd := &cobra.Command{
		Use:   "tablas",
		Short: "Consulta y genera las tablas de configuración (viáticos, formularios, contactos)",
	}
	cmd.PersistentFlags().StringVarP(&archivo, "archivo", "a", "", "JSON de tablas que reemplaza las compiladas")

	initCmd := &cobra.Command{
		Use:   "init [ruta]",
		Short: "Escribe las tablas por defecto como JSON editable para VISITAS_TABLAS_FILE",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ruta := "tablas.json"
			if len(args) == 1 {
				ruta = args[0]
			}
			data, err := json.MarshalIndent(tablas.PorDefecto(), "", "  ")
			if err != nil {
				return fmt.Errorf("serializar tablas: %w", err)
			}
			if err := os.WriteFile(ruta, data, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", ruta, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tablas escritas en %s\n", ruta)
			return nil
		},
	}

	viaticosCmd := &cobra.Command{
		Use:   "viaticos <ciudad>",
		Short: "Resuelve el viático configurado para una ciudad (0 si no está listada)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tablas.Cargar(archivo)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.ViaticosPara(args[0]))
			return nil
		},
	}

	linkCmd := &cobra.Command{
		Use:   "link <tipo-visita>",
		Short: "Resuelve el formulario asignado a un tipo de visita",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tablas.Cargar(archivo)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.LinkFormulario(args[0]))
			return nil
		},
	}

	cmd.AddCommand(initCmd, viaticosCmd, linkCmd)
	return cmd
}

func newMigrarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrar",
		Short: "Crea el esquema en la base de datos configurada si aún no existe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			pool, err := database.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("conectar a postgres: %w", err)
			}
			defer pool.Close()
			if err := database.EnsureSchema(ctx, pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "esquema listo")
			return nil
		},
	}
}

func newFirmarCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "firmar <object-key>",
		Short: "Emite una URL de descarga firmada para un objeto de evidencia",
		Long: `Emite una URL de descarga firmada con el secreto configurado en
VISITAS_SIGNING_SECRET; debe ser el mismo que usa la API para que valide.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.SignedURLTTL
			}
			signer := signing.NewSigner(cfg.SigningSecret)
			fmt.Fprintln(cmd.OutOrStdout(), signer.URLEvidencia(cfg.PublicBaseURL, args[0], time.Now().Add(ttl)))
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Vigencia de la URL (por defecto la configurada)")
	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Lanza los binarios con go run",
	}
	for _, servicio := range []struct{ nombre, ruta string }{
		{"api", "./cmd/api"},
		{"worker", "./cmd/worker"},
	} {
		ruta := servicio.ruta
		cmd.AddCommand(&cobra.Command{
			Use:   servicio.nombre,
			Short: fmt.Sprintf("go run %s", ruta),
			RunE: func(cmd *cobra.Command, args []string) error {
				goArgs := append([]string{"run", ruta}, args...)
				ejecucion := exec.CommandContext(cmd.Context(), "go", goArgs...)
				ejecucion.Stdout = os.Stdout
				ejecucion.Stderr = os.Stderr
				ejecucion.Stdin = os.Stdin
				return ejecucion.Run()
			},
		})
	}
	return cmd
}
