package cmd

import (
	"fmt"
	"html/template"
	"net/http"

	"attendance/handlers"
	"attendance/logger"
	"attendance/timecalc"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the attendance web UI",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, tr, err := setup()
	if err != nil {
		return err
	}

	funcMap := template.FuncMap{
		"formatHours": timecalc.FormatHours,
		"money": func(v float64) string {
			return fmt.Sprintf("%.2f €", v)
		},
	}

	// Parse templates - each page template paired with base
	templates := make(map[string]*template.Template)
	pages := []string{"dashboard", "settings", "import"}
	for _, page := range pages {
		templates[page] = template.Must(template.New("").Funcs(funcMap).ParseFiles(
			"templates/base.html",
			"templates/"+page+".html",
		))
	}

	attendanceHandler := handlers.NewAttendanceHandler(cfg, templates, tr)

	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	router.Get("/dashboard", attendanceHandler.Dashboard)
	router.Post("/day/update", attendanceHandler.UpdateDay)
	router.Post("/day/stamp", attendanceHandler.StampDay)
	router.Post("/day/delete", attendanceHandler.DeleteDay)
	router.Post("/month/delete", attendanceHandler.DeleteMonth)
	router.Get("/settings", attendanceHandler.SettingsPage)
	router.Post("/settings", attendanceHandler.UpdateSettings)
	router.Get("/export/json", attendanceHandler.ExportJSON)
	router.Get("/export/csv", attendanceHandler.ExportCSV)
	router.Get("/export/xlsx", attendanceHandler.ExportXLSX)
	router.Get("/import", attendanceHandler.ImportPage)
	router.Post("/import", attendanceHandler.ImportJSON)
	router.Get("/report", attendanceHandler.ReportText)

	logger.Info("server starting", "port", cfg.ServerPort)
	return http.ListenAndServe(":"+cfg.ServerPort, router)
}
