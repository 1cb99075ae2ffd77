//go:build !linux

package config

const defaultLogFile = "./log/ua4f.log"
