package api

import "time"

type Configuration struct {
	Env                 string
	AppName             string
	AppVersion          string
	Port                string
	RequestLoggingLevel string
	AllowedOrigins      []string
	DefaultTimeout      time.Duration
	NegotiationTimeout  time.Duration
	MaxUploadSizeBytes  int64
}
