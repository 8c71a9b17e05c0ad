// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package opts

import (
	"context"

	"github.com/walteh/lineutil/pkg/config"
)

// DefaultConfigFile is the job file read by apply when --config is not set
const DefaultConfigFile = ".lineutil.yaml"

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
}

// LoadConfig loads the job file named by ConfigFile
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	return config.Load(ctx, o.ConfigFile)
}
