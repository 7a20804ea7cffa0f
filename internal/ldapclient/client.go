package ldapclient

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/sirupsen/logrus"

	"github.com/opsbrew/dirsync/tools"
)

// Config carries everything needed to reach and bind the directory.
type Config struct {
	Server       string
	Port         string
	BindUser     string
	BindPassword string
	BaseDN       string
}

// ConfigFromEnv reads the LDAP_* variables. Callers load the .env file
// themselves before asking for config.
func ConfigFromEnv() Config {
	cfg := Config{
		Server:       strings.TrimSpace(os.Getenv("LDAP_SERVER")),
		Port:         strings.TrimSpace(os.Getenv("LDAP_PORT")),
		BindUser:     strings.TrimSpace(os.Getenv("LDAP_USER")),
		BindPassword: strings.TrimSpace(os.Getenv("LDAP_PASSWORD")),
		BaseDN:       strings.TrimSpace(os.Getenv("BASE_DN")),
	}
	if cfg.Port == "" {
		cfg.Port = "389"
	}
	return cfg
}

type Client struct {
	Conn   *ldap.Conn
	BaseDN string
}

// Connect resolves the configured hostname and returns a bound Client.
func Connect(cfg Config) (*Client, error) {
	if cfg.Server == "" {
		return nil, fmt.Errorf("LDAP_SERVER is not set")
	}

	addrs, err := net.LookupHost(cfg.Server)
	if err != nil || len(addrs) == 0 {
		return nil, fmt.Errorf("DNS lookup failed for %s: %v", cfg.Server, err)
	}

	tools.Log.WithFields(logrus.Fields{
		"host": cfg.Server,
		"ip":   addrs[0],
		"port": cfg.Port,
	}).Debug("Resolved LDAP server IP")

	url := fmt.Sprintf("ldap://%s:%s", addrs[0], cfg.Port)
	conn, err := ldap.DialURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP: %w", err)
	}

	if err := conn.Bind(cfg.BindUser, cfg.BindPassword); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to bind as %s: %w", cfg.BindUser, err)
	}

	tools.Log.Debug("Successfully bound to LDAP")

	return &Client{Conn: conn, BaseDN: cfg.BaseDN}, nil
}

func (c *Client) Close() {
	if c.Conn != nil {
		c.Conn.Close()
		tools.Log.Debug("Closed LDAP connection")
	}
}
