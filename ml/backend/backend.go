// Package backend registers every capability module with package ml.
package backend

import (
	_ "github.com/ollama/devicemgr/ml/backend/cuda"
	_ "github.com/ollama/devicemgr/ml/backend/ext"
	_ "github.com/ollama/devicemgr/ml/backend/host"
	_ "github.com/ollama/devicemgr/ml/backend/levelzero"
	_ "github.com/ollama/devicemgr/ml/backend/metal"
)
