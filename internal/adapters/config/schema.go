package config

// Manifest represents the structure of the ffbuild.yaml file.
type Manifest struct {
	Version   string                `yaml:"version"`
	Binary    string                `yaml:"binary"`
	Paths     PathsDTO              `yaml:"paths"`
	Timeout   string                `yaml:"timeout"`
	Universal *[]string             `yaml:"universal"`
	Bootstrap map[string][][]string `yaml:"bootstrap"`
	Patches   map[string][]PatchDTO `yaml:"patches"`
	Steps     []StepDTO             `yaml:"steps"`
	Targets   map[string]TargetDTO  `yaml:"targets"`
	Publish   PublishDTO            `yaml:"publish"`
	Inputs    []string              `yaml:"inputs"`
}

// PathsDTO lists the project directories.
type PathsDTO struct {
	Source    string `yaml:"source"`
	Flags     string `yaml:"flags"`
	Work      string `yaml:"work"`
	Artifacts string `yaml:"artifacts"`
	State     string `yaml:"state"`
}

// PatchDTO pairs a vendor file with its patch.
type PatchDTO struct {
	File  string `yaml:"file"`
	Patch string `yaml:"patch"`
}

// StepDTO represents a library build step.
type StepDTO struct {
	Name      string            `yaml:"name"`
	Dir       string            `yaml:"dir"`
	Requires  []string          `yaml:"requires"`
	Autotools bool              `yaml:"autotools"`
	Flags     string            `yaml:"flags"`
	Final     bool              `yaml:"final"`
	Configure string            `yaml:"configure"`
	Bootstrap string            `yaml:"bootstrap"`
	Env       map[string]string `yaml:"env"`
}

// TargetDTO overrides the built-in toolchain of a target.
type TargetDTO struct {
	Host      string   `yaml:"host"`
	CC        string   `yaml:"cc"`
	CXX       string   `yaml:"cxx"`
	Shell     string   `yaml:"shell"`
	ArchFlags []string `yaml:"archFlags"`
	MinOS     string   `yaml:"minOS"`
	Disabled  bool     `yaml:"disabled"`
}

// PublishDTO describes the upload destination.
type PublishDTO struct {
	Bucket   string `yaml:"bucket"`
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	Prefix   string `yaml:"prefix"`
}
