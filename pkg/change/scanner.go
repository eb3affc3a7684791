// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package change

import (
	"context"
	"log/slog"
)

// Scanner walks change records against an ordered set of detection rules.
// Rule order is the priority order: the first rule that matches a record is
// the only one that fires for it.
type Scanner struct {
	rules  []Rule
	logger *slog.Logger
}

// NewScanner creates a Scanner over the given rules in priority order.
func NewScanner(logger *slog.Logger, rules ...Rule) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{rules: rules, logger: logger}
}

// Scan applies the first matching rule to rec and returns its detection.
// Records no rule claims contribute nothing.
func (s *Scanner) Scan(ctx context.Context, rec Record) (Detection, error) {
	for _, rule := range s.rules {
		if !rule.Matches(rec) {
			continue
		}
		s.logger.Debug("rule matched change record", "rule", rule.Name(), "path", rec.Path)
		det, err := rule.Detect(ctx, rec)
		if err != nil {
			return Detection{}, err
		}
		if !det.Empty() {
			s.logger.Info("change detected",
				"rule", rule.Name(),
				"path", rec.Path,
				"severities", det.Severities,
				"reseat", det.Reseat)
		}
		return det, nil
	}
	s.logger.Debug("no rule matched change record", "path", rec.Path)
	return Detection{}, nil
}
