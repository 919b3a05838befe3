package main

import (
	"encoding/json"
	"os"
)

// Configuration is the on-disk JSON shape for a clusterize run. Fields
// left unset in the file keep the defaults set below before unmarshal.
type Configuration struct {
	FileIn       string `json:"file_in"`
	FileOut      string `json:"file_out"`
	Verbosity    int    `json:"verbosity"`
	MaxEvents    int    `json:"max_events"`
	Skip         int    `json:"skip"`
	NoDB         bool   `json:"no_db"`
	Host         string `json:"host"`
	User         string `json:"user"`
	Passwd       string `json:"pass"`
	DBName       string `json:"dbname"`
	RunNumber    int    `json:"run_number"`
	EnableCharge bool   `json:"enable_charge_histograms"`

	Dx                    uint32 `json:"dx"`
	Dy                    uint32 `json:"dy"`
	DBCID                 uint32 `json:"d_bcid"`
	MinClusterHits        uint32 `json:"min_cluster_hits"`
	MaxClusterHits        uint32 `json:"max_cluster_hits"`
	MaxHitTot             uint16 `json:"max_hit_tot"`
	MaxClusterHitTot      uint16 `json:"max_cluster_hit_tot"`
	ClusterInfoEnabled    bool   `json:"cluster_info_enabled"`
	ClusterHitInfoEnabled bool   `json:"cluster_hit_info_enabled"`
}

// LoadConfiguration reads and unmarshals a JSON configuration file,
// starting from the clusterizer's own defaults so an omitted field
// falls back to the core's default rather than Go's zero value.
func LoadConfiguration(filename string) (Configuration, error) {
	config := Configuration{
		Verbosity:             0,
		MaxEvents:             1000000000,
		Skip:                  0,
		NoDB:                  true,
		Host:                  "localhost",
		User:                  "clusterize",
		Passwd:                "",
		DBName:                "pybar_calib",
		RunNumber:             0,
		EnableCharge:          false,
		Dx:                    1,
		Dy:                    2,
		DBCID:                 4,
		MinClusterHits:        1,
		MaxClusterHits:        9,
		MaxHitTot:             13,
		MaxClusterHitTot:      13,
		ClusterInfoEnabled:    true,
		ClusterHitInfoEnabled: false,
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return config, err
	}
	return config, nil
}
