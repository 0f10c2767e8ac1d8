package aggregate

import (
	"encoding/json"

	"github.com/stellarlinkco/benchlab/internal/artifact"
	"github.com/stellarlinkco/benchlab/internal/bench"
)

func init() {
	artifact.RegisterAggregator("RuntimesAggregator", Runtimes{},
		func(json.RawMessage) (bench.Aggregator, error) { return Runtimes{}, nil })
	artifact.RegisterAggregator("StatusAggregator", StatusRate{},
		func(json.RawMessage) (bench.Aggregator, error) { return StatusRate{}, nil })
	artifact.RegisterAggregator("ConsensusAggregator", Consensus{},
		func(raw json.RawMessage) (bench.Aggregator, error) {
			var c Consensus
			if err := json.Unmarshal(raw, &c); err != nil {
				return nil, err
			}
			return c, nil
		})
}
