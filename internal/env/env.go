package env

import (
	"github.com/thatsimonsguy/hvac-idf/internal/config"
)

var Cfg *config.Config
