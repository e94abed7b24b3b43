// Package usage analyzes what a floor is used for, categorizing the
// elements of one storey by the bilingual naming conventions of the
// source models.
package usage

import (
	"sort"
	"strings"

	"bim-tools/internal/library"
)

// Category names. ESPACE_GENERAL is the fallback for architectural
// elements that define no specific room.
const (
	Chambre       = "CHAMBRE"
	SalleDeBain   = "SALLE_DE_BAIN"
	Cuisine       = "CUISINE"
	Salon         = "SALON"
	Foyer         = "FOYER"
	Bureau        = "BUREAU"
	Corridor      = "CORRIDOR"
	Rangement     = "RANGEMENT"
	Cloison       = "CLOISON"
	Furnishing    = "FURNISHING"
	Plafond       = "PLAFOND"
	Plancher      = "PLANCHER"
	Porte         = "PORTE"
	EspaceGeneral = "ESPACE_GENERAL"
)

// Colors is the visualization palette per category.
var Colors = map[string][4]float32{
	Chambre:       {0.1, 0.8, 0.1, 1.0},
	SalleDeBain:   {0.8, 0.1, 0.8, 1.0},
	Cuisine:       {1.0, 0.5, 0.0, 1.0},
	Salon:         {0.1, 0.1, 0.8, 1.0},
	Foyer:         {0.1, 0.8, 0.8, 1.0},
	Bureau:        {0.8, 0.8, 0.1, 1.0},
	Corridor:      {0.8, 0.4, 0.1, 1.0},
	Rangement:     {0.6, 0.6, 0.6, 1.0},
	EspaceGeneral: {0.5, 0.5, 0.5, 1.0},
}

// Color resolves a category color, falling back to the general grey.
func Color(category string) [4]float32 {
	if c, ok := Colors[category]; ok {
		return c
	}
	return Colors[EspaceGeneral]
}

type keywordRule struct {
	category string
	keywords []string
}

// Keyword tables stay bilingual: the source models mix French and
// English element names.
var mainRules = []keywordRule{
	{Chambre, []string{"chambre", "bedroom", "room"}},
	{SalleDeBain, []string{"bain", "bath", "douche", "shower", "toilette", "toilet", "wc"}},
	{Cuisine, []string{"cuisine", "kitchen"}},
	{Salon, []string{"salon", "living", "séjour"}},
	{Foyer, []string{"foyer", "entrée", "entrance", "hall"}},
	{Bureau, []string{"bureau", "office", "étude"}},
	{Corridor, []string{"corridor", "couloir", "passage", "hallway"}},
	{Rangement, []string{"rangement", "storage", "closet"}},
	{Cloison, []string{"mur", "wall", "clois", "partition"}},
	{Furnishing, []string{"mobilier", "furniture", "chair", "table", "desk", "cabinet", "shelf"}},
	{Plafond, []string{"plafond", "ceiling", "composé", "plaf"}},
	{Plancher, []string{"plancher", "floor", "sol"}},
	{Porte, []string{"porte", "door"}},
}

var subRules = []keywordRule{
	{"LIT_SOIN", []string{"lit", "bed", "soin"}},
	{"PLAFOND", []string{"plafond", "ceiling", "composé", "plaf"}},
	{"CLOISON", []string{"mur", "wall", "clois", "partition"}},
	{"PORTE", []string{"porte", "door"}},
	{"FENETRE", []string{"fenêtre", "window"}},
	{"PLANCHER", []string{"plancher", "floor", "sol"}},
	{"ESCALIER", []string{"escalier", "stair"}},
	{"ASCENSEUR", []string{"ascenseur", "elevator"}},
	{"RAMPE", []string{"rampe", "ramp"}},
	{"SANITAIRE", []string{"toilette", "wc", "bathroom"}},
	{"DOUCHE", []string{"douche", "shower"}},
	{"LAVABO", []string{"lavabo", "sink"}},
	{"CUISINE", []string{"cuisine", "kitchen"}},
	{"CHAMBRE", []string{"chambre", "bedroom"}},
	{"SALON", []string{"salon", "living"}},
	{"CORRIDOR", []string{"corridor", "couloir"}},
	{"FOYER", []string{"foyer", "entrée"}},
	{"BUREAU", []string{"bureau", "office"}},
	{"RANGEMENT", []string{"rangement", "storage"}},
	{"FURNISHING", []string{"mobilier", "furniture", "chair", "table", "desk", "cabinet", "shelf"}},
	{"ECLAIRAGE", []string{"lamp", "light", "fixture", "luminaire"}},
	{"APPAREIL", []string{"appliance", "appareil", "machine"}},
	{"GARDE_CORPS", []string{"garde-corps", "mainscourante", "railing", "handrail"}},
	{"PROXY", []string{"proxy", "elementproxy", "buildingelementproxy"}},
	{"GENERIC", []string{"generic", "undefined", "unknown", "misc"}},
}

// excludeKeywords names elements irrelevant to floor usage: furniture,
// lighting, proxies and guard rails.
var excludeKeywords = []string{
	"mobilier", "mobili", "furniture", "chair", "table", "desk", "bed",
	"cabinet", "shelf", "lamp", "light", "fixture", "appliance",
	"proxy", "elementproxy", "buildingelementproxy",
	"garde-corps", "mainscourante", "railing", "handrail",
}

func matchRules(rules []keywordRule, lower, fallback string) string {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return fallback
}

// Categorize maps an element name to its main usage category.
func Categorize(name string) string {
	return matchRules(mainRules, strings.ToLower(name), EspaceGeneral)
}

// Subcategory refines an element name below its main category.
func Subcategory(name string) string {
	return matchRules(subRules, strings.ToLower(name), "GENERAL")
}

// Include reports whether an element is relevant to floor usage.
func Include(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range excludeKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

// CategoryCount is one category of an analysis, with per-subcategory
// breakdown.
type CategoryCount struct {
	Category      string
	Count         int
	Subcategories map[string]int
}

// Report is the usage analysis of one storey.
type Report struct {
	Storey     string
	Total      int
	Filtered   int
	Categories []CategoryCount
}

// Analyze queries one storey from the library and aggregates its usage
// categories, largest first.
func Analyze(store *library.Store, storey string) (*Report, error) {
	rows, err := store.UsageByStorey(storey)
	if err != nil {
		return nil, err
	}

	byCategory := map[string]*CategoryCount{}
	report := &Report{Storey: storey}
	for _, row := range rows {
		if !Include(row.Name) {
			report.Filtered += row.Count
			continue
		}
		cat := Categorize(row.Name)
		cc, ok := byCategory[cat]
		if !ok {
			cc = &CategoryCount{Category: cat, Subcategories: map[string]int{}}
			byCategory[cat] = cc
		}
		cc.Count += row.Count
		cc.Subcategories[Subcategory(row.Name)] += row.Count
		report.Total += row.Count
	}

	for _, cc := range byCategory {
		report.Categories = append(report.Categories, *cc)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		if report.Categories[i].Count != report.Categories[j].Count {
			return report.Categories[i].Count > report.Categories[j].Count
		}
		return report.Categories[i].Category < report.Categories[j].Category
	})
	return report, nil
}
