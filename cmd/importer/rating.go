package importer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
)

// setRating clicks the star widget until the hidden rating input reaches the
// wanted half-star value. The widget updates asynchronously and occasionally
// needs another click, so retry up to 3 times.
func (imp *importer) setRating(ctx context.Context, rating float64) error {
	star := int(math.Ceil(rating))
	if star == 0 {
		star = 1
	}
	target := strconv.Itoa(int(rating * 2))

	clickExpr := fmt.Sprintf(`(() => {
		const input = document.getElementById('form_rating');
		const img = input.parentElement.querySelector(':scope > img:nth-of-type(%d)');
		img.click();
	})()`, star)
	// Opacity is set to 0.3 while updating, then back to 1 on success.
	settledExpr := `(() => {
		const input = document.getElementById('form_rating');
		return input.parentElement.parentElement.style.opacity === '1';
	})()`

	for try := 0; try < 3; try++ {
		value, err := imp.sess.Value(ctx, "#form_rating")
		if err != nil {
			return err
		}
		if value == target {
			return nil
		}
		slog.Debug("Clicking rating star", "star", star)
		if err := imp.sess.Eval(ctx, clickExpr, nil); err != nil {
			return err
		}
		if err := imp.sess.WaitCondition(ctx, settledExpr, "rating widget to settle", waitTimeout); err != nil {
			return err
		}
	}

	value, err := imp.sess.Value(ctx, "#form_rating")
	if err != nil {
		return err
	}
	if value != target {
		return fmt.Errorf("failed to set rating to %s, widget reports %s", target, value)
	}
	return nil
}
