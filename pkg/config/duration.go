package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// jsonDuration reads "2s"-style strings or integer nanoseconds and writes
// the string form. toml and yaml already parse durations from strings.
type jsonDuration time.Duration

func (d jsonDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *jsonDuration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = jsonDuration(parsed)
	case float64:
		*d = jsonDuration(time.Duration(v))
	case nil:
	default:
		return fmt.Errorf("invalid duration %s", data)
	}
	return nil
}

func (w WaitConfig) MarshalJSON() ([]byte, error) {
	type plain WaitConfig
	return json.Marshal(struct {
		plain
		Delay        jsonDuration `json:"delay"`
		PollInterval jsonDuration `json:"poll_interval"`
		MaxWait      jsonDuration `json:"max_wait"`
	}{
		plain:        plain(w),
		Delay:        jsonDuration(w.Delay),
		PollInterval: jsonDuration(w.PollInterval),
		MaxWait:      jsonDuration(w.MaxWait),
	})
}

func (w *WaitConfig) UnmarshalJSON(data []byte) error {
	type plain WaitConfig
	aux := struct {
		plain
		Delay        jsonDuration `json:"delay"`
		PollInterval jsonDuration `json:"poll_interval"`
		MaxWait      jsonDuration `json:"max_wait"`
	}{
		plain:        plain(*w),
		Delay:        jsonDuration(w.Delay),
		PollInterval: jsonDuration(w.PollInterval),
		MaxWait:      jsonDuration(w.MaxWait),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*w = WaitConfig(aux.plain)
	w.Delay = time.Duration(aux.Delay)
	w.PollInterval = time.Duration(aux.PollInterval)
	w.MaxWait = time.Duration(aux.MaxWait)
	return nil
}

func (b Bootstrap) MarshalJSON() ([]byte, error) {
	type plain Bootstrap
	return json.Marshal(struct {
		plain
		ConnectTimeout jsonDuration `json:"connect_timeout"`
		CommandTimeout jsonDuration `json:"command_timeout"`
	}{
		plain:          plain(b),
		ConnectTimeout: jsonDuration(b.ConnectTimeout),
		CommandTimeout: jsonDuration(b.CommandTimeout),
	})
}

func (b *Bootstrap) UnmarshalJSON(data []byte) error {
	type plain Bootstrap
	aux := struct {
		plain
		ConnectTimeout jsonDuration `json:"connect_timeout"`
		CommandTimeout jsonDuration `json:"command_timeout"`
	}{
		plain:          plain(*b),
		ConnectTimeout: jsonDuration(b.ConnectTimeout),
		CommandTimeout: jsonDuration(b.CommandTimeout),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*b = Bootstrap(aux.plain)
	b.ConnectTimeout = time.Duration(aux.ConnectTimeout)
	b.CommandTimeout = time.Duration(aux.CommandTimeout)
	return nil
}
