package name

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultTables returns the curated Real Madrid 2025-26 tables. Grown by
// hand as new spelling variants show up in either source.
func DefaultTables() Tables {
	return Tables{
		Aliases: map[string]string{
			// Gardiens
			"Courtois":      "Thibaut Courtois",
			"Lunin":         "Andriy Lunin",
			"Fran Gonzalez": "Fran González",
			// Défenseurs
			"Carvajal":       "Dani Carvajal",
			"Militao":        "Éder Militão",
			"Militão":        "Éder Militão",
			"Alaba":          "David Alaba",
			"Rudiger":        "Antonio Rüdiger",
			"Rüdiger":        "Antonio Rüdiger",
			"Asencio":        "Raul Asencio",
			"Huijsen":        "Dean Huijsen",
			"Carreras":       "Alvaro Carreras",
			"Mendy":          "Ferland Mendy",
			"Gonzalo Garcia": "Gonzalo García",
			"Gonzalo":        "Gonzalo García",
			"Fran Garcia":    "Fran García",
			// Milieux
			"Valverde":     "Federico Valverde",
			"Tchouameni":   "Aurélien Tchouaméni",
			"Tchouaméni":   "Aurélien Tchouaméni",
			"Camavinga":    "Eduardo Camavinga",
			"Camvinga":     "Eduardo Camavinga", // recurring typo on the site
			"Modric":       "Luka Modrić",
			"Modrić":       "Luka Modrić",
			"Kroos":        "Toni Kroos",
			"Ceballos":     "Dani Ceballos",
			"Arnold":       "Trent Alexander-Arnold",
			"Trent":        "Trent Alexander-Arnold",
			"Trent Arnold": "Trent Alexander-Arnold",
			"Bellingham":   "Jude Bellingham",
			// Attaquants
			"Vinicius Jr.": "Vinicius Jr",
			"Vinicius":     "Vinicius Jr",
			"Mbappé":       "Kylian Mbappé",
			"Mbappe":       "Kylian Mbappé",
			"Rodrygo Goes": "Rodrygo",
			"Güler":        "Arda Güler",
			"Guler":        "Arda Güler",
			"Brahim":       "Brahim Diaz",
			"Brahim Diaz":  "Brahim Diaz",
			"Brahim Díaz":  "Brahim Diaz",
			"Endrick":      "Endrick Felipe",
			// Entraîneurs / staff — exclus des stats joueurs
			"Ancelotti":       Sentinel,
			"Carlo Ancelotti": Sentinel,
			"Arbeloa":         Sentinel,
			"Alvaro Arbeloa":  Sentinel,
			"Álvaro Arbeloa":  Sentinel,
			"Xabi Alonso":     Sentinel,
		},
		FullNames: map[string]string{
			"Mastantuono": "Franco Mastantuono",
			// FotMob full-name variants
			"Vinícius Júnior":    "Vinicius Jr",
			"Vinicius Junior":    "Vinicius Jr",
			"Vinícius":           "Vinicius Jr",
			"Kylian Mbappe":      "Kylian Mbappé",
			"Luka Modric":        "Luka Modrić",
			"Eder Militao":       "Éder Militão",
			"Antonio Rudiger":    "Antonio Rüdiger",
			"Aurelien Tchouameni": "Aurélien Tchouaméni",
			"Arda Guler":         "Arda Güler",
			"Brahim Díaz":        "Brahim Diaz",
			"Rodrygo Goes":       "Rodrygo",
			"Fede Valverde":      "Federico Valverde",
			"Raúl Asencio":       "Raul Asencio",
		},
	}
}

// LoadTables reads a Tables JSON file, for substituting the curated tables
// without a rebuild (ALIAS_FILE). Missing entries fall back to nothing: the
// file replaces the defaults wholesale.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read alias file: %w", err)
	}
	var t Tables
	if err := json.Unmarshal(data, &t); err != nil {
		return Tables{}, fmt.Errorf("parse alias file %s: %w", path, err)
	}
	if t.Aliases == nil {
		t.Aliases = map[string]string{}
	}
	if t.FullNames == nil {
		t.FullNames = map[string]string{}
	}
	return t, nil
}
