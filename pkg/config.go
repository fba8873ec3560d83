package analysis

type DerivedColumn struct {
	Name   string   `json:"name"`
	Inputs []string `json:"inputs"`
	Op     string   `json:"op"`
}

type CutRange struct {
	Column string  `json:"column"`
	Lo     float64 `json:"lo"`
	Hi     float64 `json:"hi"`
}

type Hist2DConfig struct {
	XColumn string  `json:"x_column"`
	YColumn string  `json:"y_column"`
	NBinsX  int     `json:"nbins_x"`
	XLo     float64 `json:"x_lo"`
	XHi     float64 `json:"x_hi"`
	NBinsY  int     `json:"nbins_y"`
	YLo     float64 `json:"y_lo"`
	YHi     float64 `json:"y_hi"`
}

type Configuration struct {
	MaxEvents   int             `json:"max_events"`
	Verbosity   int             `json:"verbosity"`
	Skip        int             `json:"skip"`
	FileIn      string          `json:"file_in"`
	FileOut     string          `json:"file_out"`
	CacheDir    string          `json:"cache_dir"`
	Dataset     string          `json:"dataset"`
	RunNumber   int             `json:"run_number"`
	NoDB        bool            `json:"no_db"`
	Discard     bool            `json:"discard"`
	Host        string          `json:"host"`
	User        string          `json:"user"`
	Passwd      string          `json:"pass"`
	DBName      string          `json:"dbname"`
	NumWorkers  int             `json:"num_workers"`
	WriteData   bool            `json:"write_data"`
	DiscVar     string          `json:"disc_var"`
	RecoVar     string          `json:"reco_var"`
	FitLo       float64         `json:"fit_lo"`
	FitHi       float64         `json:"fit_hi"`
	SigMean     float64         `json:"sig_mean"`
	SigSigma    float64         `json:"sig_sigma"`
	BkgSlope    float64         `json:"bkg_slope"`
	NBins       int             `json:"nbins"`
	HistLo      float64         `json:"hist_lo"`
	HistHi      float64         `json:"hist_hi"`
	Columns     []string        `json:"columns"`
	Derived     []DerivedColumn `json:"derived"`
	Cuts        []CutRange      `json:"cuts"`
	HistColumns []string        `json:"hist_columns"`
	Hist2D      *Hist2DConfig   `json:"hist2d"`
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}
