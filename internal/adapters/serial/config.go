package serial

import (
	"errors"
	"time"
)

// Config describes where sensor lines come from.
type Config struct {
	Device      string        `yaml:"device"`
	VendorID    string        `yaml:"vendor_id"`
	ProductID   string        `yaml:"product_id"`
	SysfsRoot   string        `yaml:"sysfs_root"`
	DevRoot     string        `yaml:"dev_root"`
	BaudRate    int           `yaml:"baud_rate"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	ReplayFile  string        `yaml:"replay_file"`
}

func (c *Config) ApplyDefaults() {
	if c.BaudRate <= 0 {
		c.BaudRate = 115200
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = time.Second
	}
	if c.SysfsRoot == "" {
		c.SysfsRoot = "/sys"
	}
	if c.DevRoot == "" {
		c.DevRoot = "/dev"
	}
	if c.Device == "" && c.ReplayFile == "" {
		if c.VendorID == "" {
			c.VendorID = "1b4f"
		}
		if c.ProductID == "" {
			c.ProductID = "9204"
		}
	}
}

func (c *Config) Validate() error {
	if c.Device == "" && c.ReplayFile == "" && (c.VendorID == "" || c.ProductID == "") {
		return errors.New("device, replay_file or vendor_id+product_id is required")
	}
	if c.Device != "" && c.ReplayFile != "" {
		return errors.New("device and replay_file are mutually exclusive")
	}
	return nil
}
