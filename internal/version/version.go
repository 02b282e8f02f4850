/*
 * Copyright 2026 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package version holds the build information of odm.
package version

import "runtime"

// At build time, the versions are replaced with the -X linker flag.
var (
	// Version is the version of odm.
	Version = "0.1.0"

	// BuildDate is the date the executable was built.
	BuildDate string
)

// Detail is the build information of the running binary.
type Detail struct {
	Version   string `json:"version" yaml:"version"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
}

// Get returns the build information of the running binary.
func Get() Detail {
	return Detail{
		Version:   Version,
		GoVersion: runtime.Version(),
		BuildDate: BuildDate,
	}
}
