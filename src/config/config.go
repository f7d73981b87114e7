package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config holds the runtime configuration of the report pipeline.
type Config struct {
	Dataset struct {
		URL          string   `json:"url"`           // remote CSV endpoint
		FetchTimeout Duration `json:"fetch_timeout"` // HTTP timeout
		FallbackPath string   `json:"fallback_path"` // local file used when the fetch fails
	} `json:"dataset"`

	OutputDir  string `json:"output_dir"` // charts, HTML report, workbook
	DataDir    string `json:"data_dir"`   // watched directory in watch mode
	LogName    string `json:"log_name"`
	LogMaxSize string `json:"log_max_size"`

	Watch struct {
		RefreshInterval Duration `json:"refresh_interval"` // remote refetch cadence
	} `json:"watch"`
}

// DataConfig is the data-shaping configuration: which columns to discard,
// which sentinel replaces a missing value in which column, and the
// parameters of the seasonal proportion test.
type DataConfig struct {
	DropColumns      []string          `json:"dropcolumns"`
	Sentinels        map[string]string `json:"sentinels"`
	NumericSentinels map[string]int    `json:"numericsentinels"`
	SummerMonths     []int             `json:"summermonths"`
	NullProportion   float64           `json:"nullproportion"`
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
)

func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read data config file: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("failed to parse Config: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	var dcfg DataConfig
	if err := json.Unmarshal(data, &dcfg); err != nil {
		errChan <- fmt.Errorf("failed to parse DataConfig: %w", err)
		return
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("some configuration was not loaded")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "configuration loading hit multiple errors:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Duration is a wrapper around time.Duration that supports JSON
// serialization as a duration string such as "30s" or "24h".
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Sentinel returns the string sentinel configured for a column, if any.
func (dc *DataConfig) Sentinel(colName string) (string, bool) {
	v, ok := dc.Sentinels[colName]
	return v, ok
}

// NumericSentinel returns the numeric sentinel configured for a column, if any.
func (dc *DataConfig) NumericSentinel(colName string) (int, bool) {
	v, ok := dc.NumericSentinels[colName]
	return v, ok
}

// IsSummerMonth reports whether the 1-based month is part of the configured
// summer set.
func (dc *DataConfig) IsSummerMonth(month int) bool {
	for _, m := range dc.SummerMonths {
		if m == month {
			return true
		}
	}
	return false
}
