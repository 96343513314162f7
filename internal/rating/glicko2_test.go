package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdate1v1(t *testing.T) {
	winner, loser := Update1v1(Default(), Default())

	assert.Greater(t, winner.Value, BaseValue, "winner's rating should go up")
	assert.Less(t, loser.Value, BaseValue, "loser's rating should go down")
	assert.InDelta(t, 2*BaseValue, winner.Value+loser.Value, 0.001, "equal ratings move symmetrically")
	assert.Less(t, winner.Deviation, BaseDeviation, "a result makes the rating more certain")
	assert.InDelta(t, BaseVolatility, winner.Volatility, 0.01)
}

func TestUpsetMovesMore(t *testing.T) {
	strong := Rating{Value: 1800, Deviation: 80, Volatility: BaseVolatility}
	weak := Rating{Value: 1400, Deviation: 80, Volatility: BaseVolatility}

	expectedWin, _ := Update1v1(strong, weak)
	upsetWin, _ := Update1v1(weak, strong)

	assert.Less(t, expectedWin.Value-strong.Value, upsetWin.Value-weak.Value)
}

func TestExpected(t *testing.T) {
	assert.InDelta(t, 0.5, Expected(Default(), Default()), 1e-9)
	strong := Rating{Value: 1800, Deviation: 50, Volatility: BaseVolatility}
	assert.Greater(t, Expected(strong, Default()), 0.5)
	assert.Less(t, Expected(Default(), strong), 0.5)
}
