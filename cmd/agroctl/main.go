// agroctl tareas de operación de AgroOrdenes: migraciones, recálculo de estados,
// tokens de prueba y generación del SQL del catálogo agronómico.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/inventory"
	"github.com/jhoicas/AgroOrdenes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/AgroOrdenes-api/pkg/config"
	"github.com/jhoicas/AgroOrdenes-api/pkg/jwt"
	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
)

var (
	cfg *config.Config
	log *logger.Logger

	tokenRole    string
	tokenMinutes int
	catalogOut   string

	rootCmd = &cobra.Command{
		Use:           "agroctl",
		Short:         "Herramientas de operación de AgroOrdenes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			// stdout queda libre para tokens y SQL
			log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
			return nil
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el esquema de base de datos (idempotente)",
		RunE:  runMigrate,
	}

	refreshCmd = &cobra.Command{
		Use:   "refresh-status",
		Short: "Recalcula estado y alertas de todos los insumos activos",
		RunE:  runRefresh,
	}

	tokenCmd = &cobra.Command{
		Use:   "token [user-id]",
		Short: "Emite un JWT firmado con JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE:  runToken,
	}

	catalogCmd = &cobra.Command{
		Use:   "seed-catalog [catalogo.xml]",
		Short: "Genera el SQL de lotes, usuarios y recetas desde un catálogo XML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSeedCatalog,
	}
)

func init() {
	tokenCmd.Flags().StringVar(&tokenRole, "role", "operario", "rol del usuario (admin, agronomo, bodeguero, operario)")
	tokenCmd.Flags().IntVar(&tokenMinutes, "minutes", 0, "vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	catalogCmd.Flags().StringVarP(&catalogOut, "out", "o", "", "archivo de salida (por defecto stdout)")

	rootCmd.AddCommand(migrateCmd, refreshCmd, tokenCmd, catalogCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "agroctl: %v\n", err)
		os.Exit(1)
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	pool, err := postgres.NewPool(cmd.Context(), cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(cmd.Context(), pool); err != nil {
		return err
	}
	log.Info().Msg("esquema aplicado")
	return nil
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	pool, err := postgres.NewPool(cmd.Context(), cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	refresher := inventory.NewStatusRefresher(
		postgres.NewItemRepository(pool), postgres.NewTxRunner(pool), log, nil,
	)
	n, err := refresher.RefreshAll(cmd.Context())
	if err != nil {
		return err
	}
	log.Info().Int("items", n).Msg("estados recalculados")
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	minutes := tokenMinutes
	if minutes <= 0 {
		minutes = cfg.JWT.Expiration
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, args[0], tokenRole, cfg.JWT.Issuer, minutes)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}

func runSeedCatalog(cmd *cobra.Command, args []string) error {
	path := "catalogo.xml"
	if len(args) > 0 {
		path = args[0]
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("abrir catálogo: %w", err)
	}
	defer f.Close()

	cat, err := decodeCatalog(f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if catalogOut != "" {
		w, err := os.Create(catalogOut)
		if err != nil {
			return fmt.Errorf("crear archivo: %w", err)
		}
		defer w.Close()
		out = w
	}
	if err := writeCatalogSQL(out, cat); err != nil {
		return err
	}
	log.Info().
		Int("parcels", len(cat.Parcels)).
		Int("users", len(cat.Users)).
		Int("recipes", len(cat.Recipes)).
		Msg("catálogo generado")
	return nil
}
