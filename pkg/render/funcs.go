package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/confgen-ops/confgen/pkg/util"
)

// Funcs returns the template function map shared by all vendor
// templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"join": func(sep string, items []string) string {
			return strings.Join(items, sep)
		},
		"quote": func(s string) string {
			return fmt.Sprintf("%q", s)
		},
		// bool01 renders a boolean the way most CLIs want it
		"bool01": func(b bool) string {
			if b {
				return "1"
			}
			return "0"
		},
		"yesno": func(b bool) string {
			if b {
				return "yes"
			}
			return "no"
		},
		"defaultStr": func(def, s string) string {
			return util.CoalesceString(s, def)
		},
		// cidrAddr extracts the address part of "a.b.c.d/n"
		"cidrAddr": func(cidr string) string {
			addr, _ := util.SplitIPMask(cidr)
			return addr
		},
		// cidrMask extracts the prefix length of "a.b.c.d/n"
		"cidrMask": func(cidr string) int {
			_, prefix := util.SplitIPMask(cidr)
			return prefix
		},
		"maskToPrefix": func(mask string) int {
			prefix, err := util.MaskToPrefix(mask)
			if err != nil {
				return 0
			}
			return prefix
		},
		"prefixToMask": func(prefix int) string {
			mask, err := util.PrefixToMask(prefix)
			if err != nil {
				return ""
			}
			return mask
		},
		"networkAddr": func(cidr string) string {
			addr, prefix := util.SplitIPMask(cidr)
			return util.ComputeNetworkAddr(addr, prefix)
		},
	}
}
