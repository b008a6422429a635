// containers.go
//
// A test-case sheet tracking service with role and status gated sharing
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-testsheets.
// jam-build-testsheets is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-testsheets is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-testsheets.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package testenv starts the database and Authorizer containers used by
// integration tests and the local testcontainers tool.
package testenv

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/localnerve/jam-build-testsheets/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Options describe the containers to start. Empty images skip that container.
type Options struct {
	DBType          string
	DBImage         string
	DBPort          string
	DBDatabase      string
	DBUser          string
	DBPassword      string
	DBRootPassword  string
	AuthzImage      string
	AuthzPort       string
	AuthzClientID   string
	AuthzAdminToken string
}

// OptionsFromEnv reads Options from the environment
func OptionsFromEnv() Options {
	return Options{
		DBType:          getEnv("DB_TYPE", "mariadb"),
		DBImage:         os.Getenv("DB_IMAGE"),
		DBPort:          getEnv("DB_PORT", "3306"),
		DBDatabase:      getEnv("DB_DATABASE", "testsheets"),
		DBUser:          getEnv("DB_USER", "testsheets"),
		DBPassword:      getEnv("DB_PASSWORD", "testsheets"),
		DBRootPassword:  getEnv("DB_ROOT_PASSWORD", "root"),
		AuthzImage:      os.Getenv("AUTHZ_IMAGE"),
		AuthzPort:       getEnv("AUTHZ_PORT", "8080"),
		AuthzClientID:   getEnv("AUTHZ_CLIENT_ID", "testsheets"),
		AuthzAdminToken: getEnv("AUTHZ_ADMIN_SECRET", "admin"),
	}
}

// Containers holds the running containers
type Containers struct {
	Network    *testcontainers.DockerNetwork
	DB         testcontainers.Container
	Authorizer testcontainers.Container

	// Config reaches the containers from the host
	Config config.Config
}

// Terminate stops every started container and removes the network
func (c *Containers) Terminate(ctx context.Context) {
	if c.Authorizer != nil {
		if err := c.Authorizer.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate Authorizer: %v", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate database: %v", err)
		}
	}
	if c.Network != nil {
		if err := c.Network.Remove(ctx); err != nil {
			log.Printf("Failed to remove network: %v", err)
		}
	}
}

// Start starts the containers named by opts. On error anything already
// started is terminated.
func Start(ctx context.Context, opts Options) (*Containers, error) {
	if opts.DBImage == "" {
		return nil, fmt.Errorf("no database image configured")
	}

	c := &Containers{}
	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	c.Network = nw

	tcpDBPort, err := nat.NewPort("tcp", opts.DBPort)
	if err != nil {
		c.Terminate(ctx)
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        opts.DBImage,
			ExposedPorts: []string{string(tcpDBPort)},
			Env:          dbInitEnv(opts),
			WaitingFor:   wait.ForListeningPort(tcpDBPort).WithStartupTimeout(90 * time.Second),
			HostConfigModifier: func(hostConfig *container.HostConfig) {
				if dir := dbDataDir(opts.DBType); dir != "" {
					hostConfig.Tmpfs = map[string]string{dir: "rw"}
				}
			},
			Networks: []string{nw.Name},
			NetworkAliases: map[string][]string{
				nw.Name: {"db"},
			},
		},
		Started: true,
	})
	if err != nil {
		c.Terminate(ctx)
		return nil, fmt.Errorf("failed to start database: %w", err)
	}
	c.DB = dbContainer

	dbHost, err := dbContainer.Host(ctx)
	if err != nil {
		c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get database host: %w", err)
	}
	dbPort, err := dbContainer.MappedPort(ctx, tcpDBPort)
	if err != nil {
		c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get database port: %w", err)
	}

	c.Config = config.Config{
		DBType:            opts.DBType,
		DBHost:            dbHost,
		DBPort:            dbPort.Port(),
		DBDatabase:        opts.DBDatabase,
		DBUser:            opts.DBUser,
		DBPassword:        opts.DBPassword,
		DBConnectionLimit: 5,
		SessionCookie:     "cookie_session",
		SheetListLimit:    100,
	}

	if opts.AuthzImage != "" {
		if err := c.startAuthorizer(ctx, opts); err != nil {
			c.Terminate(ctx)
			return nil, err
		}
	}

	return c, nil
}

func (c *Containers) startAuthorizer(ctx context.Context, opts Options) error {
	tcpAuthzPort, err := nat.NewPort("tcp", opts.AuthzPort)
	if err != nil {
		return fmt.Errorf("failed to create Authorizer port: %w", err)
	}

	authz, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        opts.AuthzImage,
			ExposedPorts: []string{string(tcpAuthzPort)},
			Env: map[string]string{
				"ENV":           "production",
				"CLIENT_ID":     opts.AuthzClientID,
				"PORT":          opts.AuthzPort,
				"DATABASE_TYPE": "sqlite",
				"DATABASE_URL":  "/tmp/authorizer.db",
				"ADMIN_SECRET":  opts.AuthzAdminToken,
				"ROLES":         "admin,user",
				"DEFAULT_ROLES": "user",
			},
			WaitingFor: wait.ForLog("Authorizer running at PORT:").WithStartupTimeout(30 * time.Second),
			Networks:   []string{c.Network.Name},
			NetworkAliases: map[string][]string{
				c.Network.Name: {"authorizer"},
			},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start Authorizer: %w", err)
	}
	c.Authorizer = authz

	host, err := authz.Host(ctx)
	if err != nil {
		return fmt.Errorf("failed to get Authorizer host: %w", err)
	}
	port, err := authz.MappedPort(ctx, tcpAuthzPort)
	if err != nil {
		return fmt.Errorf("failed to get Authorizer port: %w", err)
	}

	c.Config.AuthzURL = fmt.Sprintf("http://%s:%s", host, port.Port())
	c.Config.AuthzClientID = opts.AuthzClientID
	return nil
}

// Env renders the host facing configuration as environment assignments
func (c *Containers) Env() []string {
	env := []string{
		"DB_TYPE=" + c.Config.DBType,
		"DB_HOST=" + c.Config.DBHost,
		"DB_PORT=" + c.Config.DBPort,
		"DB_DATABASE=" + c.Config.DBDatabase,
		"DB_USER=" + c.Config.DBUser,
		"DB_PASSWORD=" + c.Config.DBPassword,
	}
	if c.Config.AuthzURL != "" {
		env = append(env,
			"AUTHZ_URL="+c.Config.AuthzURL,
			"AUTHZ_CLIENT_ID="+c.Config.AuthzClientID,
		)
	}
	return env
}

// dbDataDir is the data directory of the database image, kept on tmpfs
func dbDataDir(dbType string) string {
	switch dbType {
	case "mysql", "mariadb":
		return "/var/lib/mysql"
	case "postgres", "postgresql":
		return "/var/lib/postgresql/data"
	}
	return ""
}

func dbInitEnv(opts Options) map[string]string {
	switch opts.DBType {
	case "postgres", "postgresql":
		return map[string]string{
			"POSTGRES_PASSWORD": opts.DBPassword,
			"POSTGRES_USER":     opts.DBUser,
			"POSTGRES_DB":       opts.DBDatabase,
		}
	default:
		return map[string]string{
			"MYSQL_ROOT_PASSWORD": opts.DBRootPassword,
			"MYSQL_DATABASE":      opts.DBDatabase,
			"MYSQL_USER":          opts.DBUser,
			"MYSQL_PASSWORD":      opts.DBPassword,
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
