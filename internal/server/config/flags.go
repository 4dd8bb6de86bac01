package config

import (
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/flagx"
)

var ownFlags = []string{
	"-a", "-l", "-d", "-s", "-t", "-m", "-prod", "-seed", "-prefix", "-log", "-cors",
	"-u", "-p", "-b", "-g", "-e",
}

// parseFlags overlays command-line flags:
//
//	-a string    HTTP bind address (":3000")
//	-l string    gRPC health bind address (":50051")
//	-d string    PostgreSQL DSN
//	-s string    JWT HMAC secret
//	-t duration  token validity ("168h")
//	-m string    storage mode: memory | postgres
//	-prod        production mode
//	-seed        seed the sample project (memory storage)
//	-prefix      API mount prefix ("/api")
//	-log         log level
//	-cors        comma-separated allowed origins
//	-u -p -b -g -e  S3 user, password, bucket, region, endpoint
func parseFlags(c *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&c.EndpointAddrHTTP, "a", c.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&c.EndpointAddrGRPC, "l", c.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&c.DatabaseDSN, "d", c.DatabaseDSN, "database DSN")
	fs.StringVar(&c.SecretKey, "s", c.SecretKey, "JWT secret key")
	fs.DurationVar(&c.TokenValidityDuration, "t", c.TokenValidityDuration, "token validity")
	fs.StringVar(&c.StorageMode, "m", c.StorageMode, "storage mode (memory|postgres)")
	fs.BoolVar(&c.Production, "prod", c.Production, "production mode")
	fs.BoolVar(&c.SeedSample, "seed", c.SeedSample, "seed sample project")
	fs.StringVar(&c.APIPrefix, "prefix", c.APIPrefix, "API prefix")
	fs.StringVar(&c.LogLevel, "log", c.LogLevel, "log level")
	cors := fs.String("cors", strings.Join(c.CORSOrigins, ","), "allowed CORS origins")

	fs.StringVar(&c.S3RootUser, "u", c.S3RootUser, "S3 access key")
	fs.StringVar(&c.S3RootPassword, "p", c.S3RootPassword, "S3 secret key")
	fs.StringVar(&c.S3Bucket, "b", c.S3Bucket, "S3 bucket")
	fs.StringVar(&c.S3Region, "g", c.S3Region, "S3 region")
	fs.StringVar(&c.S3BaseEndpoint, "e", c.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		return err
	}

	if *cors != "" {
		c.CORSOrigins = strings.Split(*cors, ",")
	}
	return nil
}
