// FILE: lixenwraith/classconfig/example/main.go
package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/lixenwraith/classconfig"
	"github.com/rs/zerolog"
)

// SMTPConfig configures a Mailer.
type SMTPConfig struct {
	classconfig.Base
}

type smtpDefaults struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	FromAddr string `toml:"from_addr"`
	Auth     struct {
		User string `toml:"user"`
		Pass string `toml:"pass"`
	} `toml:"auth"`
	Retries int `toml:"retries"`
}

func (c *SMTPConfig) Accessors() map[string]classconfig.AccessorFunc {
	return map[string]classconfig.AccessorFunc{
		// Clamp retries to a sane range
		"retries": func(parent classconfig.Tree, key string) classconfig.Descriptor {
			return classconfig.Writable(
				func() any { return parent[key] },
				func(v any) {
					if n, ok := v.(int); ok {
						parent[key] = int(math.Max(0, math.Min(10, float64(n))))
					}
				},
			)
		},
		"auth.pass": func(parent classconfig.Tree, key string) classconfig.Descriptor {
			d := classconfig.ReadOnly(func() any { return parent[key] })
			d.Hidden = true
			return d
		},
	}
}

func (c *SMTPConfig) Interfaces() map[string]classconfig.Descriptor {
	return map[string]classconfig.Descriptor{
		"address": classconfig.ReadOnly(func() any {
			host, _ := c.GetString("host")
			port, _ := c.GetInt64("port")
			return fmt.Sprintf("%s:%d", host, port)
		}),
		"retries": classconfig.Writable(
			func() any { v, _ := c.Get("retries"); return v },
			func(v any) { _ = c.Set("retries", v) },
		),
		"send": classconfig.Method(func(to string) string {
			from, _ := c.GetString("from_addr")
			return fmt.Sprintf("mail from %s to %s", from, to)
		}),
	}
}

// Mailer is configured by an SMTPConfig.
type Mailer struct {
	classconfig.Object
}

func main() {
	defaults := smtpDefaults{Host: "smtp.example.com", Port: 587, FromAddr: "noreply@example.com", Retries: 3}
	defaults.Auth.User = "admin"
	defaults.Auth.Pass = "default123"

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)

	// ./example --port 2525 --retries 99 or SMTP_HOST=mail.local ./example
	cfg := &SMTPConfig{}
	err := classconfig.NewBuilder().
		WithDefaults(defaults).
		WithDiscovery("smtp").
		WithEnvPrefix("SMTP_").
		WithLogger(logger).
		WithValidator(func(c classconfig.Configurable) error {
			port, err := c.(*SMTPConfig).GetInt64("port")
			if err != nil || port <= 0 {
				return fmt.Errorf("invalid port %d", port)
			}
			return nil
		}).
		Build(cfg)
	if err != nil && !errors.Is(err, classconfig.ErrConfigNotFound) {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	mailer := &Mailer{}
	if err := cfg.Configure(mailer); err != nil {
		fmt.Fprintf(os.Stderr, "configure: %v\n", err)
		os.Exit(1)
	}

	registry := classconfig.NewRegistry(classconfig.WithLogger(logger))
	registry.Set(mailer, cfg)

	fmt.Println(cfg)
	fmt.Println(mailer)

	addr, _ := mailer.Get("address")
	fmt.Println("address:", addr)

	_ = mailer.Set("retries", 42)
	retries, _ := mailer.Get("retries")
	fmt.Println("retries:", retries)

	if fn, ok := mailer.Get("send"); ok {
		fmt.Println(fn.(func(string) string)("ops@example.com"))
	}

	if owner, ok := registry.GetConfig(mailer); ok {
		fmt.Println("registered config:", owner.(*SMTPConfig).Name())
	}
}
