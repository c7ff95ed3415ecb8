package config

import "time"

// Log configures the structured logger.
type Log struct {
	Level string `mapstructure:"level" json:"level,omitempty" jsonschema:"enum=DEBUG,enum=INFO,enum=WARN,enum=ERROR" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`
	File  string `mapstructure:"file" json:"file,omitempty"`
}

// Render configures transcript rendering limits. The limits are product
// defaults, not invariants; see defaults.tracetail.yaml.
type Render struct {
	// UnknownLimit suppresses unrecognized-record payloads at or above this
	// many bytes of raw line.
	UnknownLimit int `mapstructure:"unknown_limit" json:"unknown_limit,omitempty" validate:"min=0"`
	// TodoLimit caps the number of task list items shown per update.
	TodoLimit int `mapstructure:"todo_limit" json:"todo_limit,omitempty" validate:"min=0"`
	// EditPreview caps the display width of replaced-text previews.
	EditPreview int `mapstructure:"edit_preview" json:"edit_preview,omitempty" validate:"min=0"`
	// DescriptionWidth caps the display width of tool detail lines. 0 turns
	// the cap off.
	DescriptionWidth int `mapstructure:"description_width" json:"description_width,omitempty" validate:"min=0"`
}

// Watch configures the iteration supervisor.
type Watch struct {
	Command       string        `mapstructure:"command" json:"command,omitempty"`
	Args          []string      `mapstructure:"args" json:"args,omitempty"`
	MaxIterations int           `mapstructure:"max_iterations" json:"max_iterations,omitempty" validate:"min=0"`
	Delay         time.Duration `mapstructure:"delay" json:"delay,omitempty"`
	LogDir        string        `mapstructure:"log_dir" json:"log_dir,omitempty"`
}

// Job is one scheduled maintenance command.
type Job struct {
	Name     string        `mapstructure:"name" json:"name" validate:"required"`
	Command  string        `mapstructure:"command" json:"command,omitempty"`
	Args     []string      `mapstructure:"args" json:"args,omitempty"`
	Interval time.Duration `mapstructure:"interval" json:"interval,omitempty"`
}

// Daemon configures the background maintenance scheduler.
type Daemon struct {
	PIDFile    string        `mapstructure:"pid_file" json:"pid_file,omitempty"`
	JobTimeout time.Duration `mapstructure:"job_timeout" json:"job_timeout,omitempty"`
	Jobs       []Job         `mapstructure:"jobs" json:"jobs,omitempty" validate:"dive"`
}

// ConfigSchema is the full merged configuration.
type ConfigSchema struct {
	Log    Log    `mapstructure:"log" json:"log,omitempty"`
	Render Render `mapstructure:"render" json:"render,omitempty"`
	Watch  Watch  `mapstructure:"watch" json:"watch,omitempty"`
	Daemon Daemon `mapstructure:"daemon" json:"daemon,omitempty"`
}
