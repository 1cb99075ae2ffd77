package config

const defaultLogFile = "/var/log/ua4f.log"
