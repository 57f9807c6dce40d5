package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRateFor(t *testing.T) {
	cases := []struct {
		name          string
		vipLevel      int
		referralLevel int
		want          int64
	}{
		{name: "vip0 level1", vipLevel: 0, referralLevel: 1, want: 20},
		{name: "vip1 level1", vipLevel: 1, referralLevel: 1, want: 30},
		{name: "vip2 level1", vipLevel: 2, referralLevel: 1, want: 40},
		{name: "vip3 level1", vipLevel: 3, referralLevel: 1, want: 50},
		{name: "level2 не зависит от vip", vipLevel: 3, referralLevel: 2, want: 10},
		{name: "level3 не зависит от vip", vipLevel: 0, referralLevel: 3, want: 5},
		{name: "vip выше максимума ужимается", vipLevel: 42, referralLevel: 1, want: 50},
		{name: "отрицательный vip ужимается", vipLevel: -1, referralLevel: 1, want: 20},
		{name: "уровень 0 дает нулевую ставку", vipLevel: 1, referralLevel: 0, want: 0},
		{name: "уровень 4 дает нулевую ставку", vipLevel: 1, referralLevel: 4, want: 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.True(t, RateFor(c.vipLevel, c.referralLevel).Equal(decimal.NewFromInt(c.want)))
		})
	}
}

// Ставка прямого реферера не убывает с ростом VIP уровня.
func TestRateForMonotonic(t *testing.T) {
	prev := decimal.Zero
	for vip := MinVIPLevel; vip <= MaxVIPLevel; vip++ {
		rate := RateFor(vip, 1)
		assert.True(t, rate.GreaterThanOrEqual(prev), "vip %d", vip)
		prev = rate
	}
}

func TestCommissionAmount(t *testing.T) {
	cases := []struct {
		name       string
		amount     string
		percentage int64
		want       string
	}{
		{name: "целый процент", amount: "1000", percentage: 20, want: "200"},
		{name: "дробный результат", amount: "99.99", percentage: 5, want: "5"},
		{name: "округление до сотых", amount: "33.33", percentage: 10, want: "3.33"},
		{name: "ноль", amount: "0", percentage: 50, want: "0"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			amount := decimal.RequireFromString(c.amount)
			got := CommissionAmount(amount, decimal.NewFromInt(c.percentage))
			assert.True(t, got.Equal(decimal.RequireFromString(c.want)), "got %s", got)
		})
	}
}
