// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

// Temperature holds the current head temperature and its configured
// limits, in degrees Celsius. All three readings are fetched fresh on
// every call; nothing is cached.
type Temperature struct {
	Current float64 `cbor:"current_c"`
	Min     float64 `cbor:"min_c"`
	Max     float64 `cbor:"max_c"`
}

// temperature issues the three temperature queries. The limit
// responses place the reading in the final token. Caller holds the
// command lock.
func (c *Client) temperature() (Temperature, error) {
	current, err := Query(c.tr, CmdTemperature, c.cfg.PollTimeout)
	if err != nil {
		return Temperature{}, err
	}
	min, err := Query(c.tr, CmdTempMin, c.cfg.PollTimeout)
	if err != nil {
		return Temperature{}, err
	}
	max, err := Query(c.tr, CmdTempMax, c.cfg.PollTimeout)
	if err != nil {
		return Temperature{}, err
	}

	return Temperature{
		Current: lastFloatToken(current),
		Min:     lastFloatToken(min),
		Max:     lastFloatToken(max),
	}, nil
}
