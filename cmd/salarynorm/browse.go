package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/salarynorm/internal/browse"
)

var browseFlags struct {
	input string
	db    string
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse clean records interactively (TUI)",
	Long:  "Shows the city picker TUI, then launches the split-pane view of parsed and unparsed salaries.",
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseFlags.input, "input", "", "clean JSON file to browse (default: latest run in the database)")
	browseCmd.Flags().StringVar(&browseFlags.db, "db", "", "SQLite run database (overrides config)")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cmd.Flags().Changed("db") {
		cfg.Output.DB = browseFlags.db
	}

	src, err := openRecordSource(cfg, browseFlags.input)
	if err != nil {
		logger.Error("failed to open records", "error", err)
		os.Exit(1)
	}
	defer src.close()

	// Nothing logs past this point: output before the alt-screen starts
	// corrupts the display.
	records, err := browse.RunLoader(src.name, src.loader.LoadRecords)
	if err != nil {
		fmt.Printf("Error loading records: %v\n", err)
		return nil
	}
	if len(records) == 0 {
		fmt.Println("No clean records to browse.")
		return nil
	}

	options := browse.CityOptions(records)
	for {
		choice, err := browse.RunCityPicker(options)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return nil
		}
		if choice < 0 {
			return nil
		}
		opt := options[choice]

		title := opt.City
		if title == browse.AllCities {
			title = "All cities"
		}
		wantQuit, err := browse.RunBrowseTUI(title, browse.FilterByCity(records, opt.City))
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return nil
		}
		// else: loop → back to picker
	}
}
