package main

import (
	"fmt"
	"os"

	"github.com/mphaphulimavhungu/casino/internal/fileutil"
	"github.com/mphaphulimavhungu/casino/internal/server"
)

type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Write a server config file with the default settings"`
}

type ConfigInitCmd struct {
	Path  string `arg:"" optional:"" default:"casino.hcl" help:"Where to write the file"`
	Force bool   `help:"Overwrite an existing file"`
}

func (c *ConfigInitCmd) Run() error {
	if err := fileutil.WriteFile(c.Path, server.DefaultConfig().Encode(), 0o644, c.Force); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %s\n", c.Path)
	return nil
}
