package dataset

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Frame returns a gota view of the dataset with every cell formatted as
// text. Nulls become empty strings.
func (d *Dataset) Frame() dataframe.DataFrame {
	cols := make([]series.Series, len(d.columns))
	for i, c := range d.columns {
		vals := make([]string, len(c.Values))
		for j, v := range c.Values {
			vals[j] = v.String()
		}
		cols[i] = series.New(vals, series.String, c.Name)
	}
	return dataframe.New(cols...)
}
