package views

import "github.com/khuang/screenroast/models"

// Fixed per-locale fortune strings shown next to the lottery pick.
var fortunes = map[models.Language][]string{
	models.LangEN: {
		"Great fortune: tonight's pick will be a classic.",
		"Good fortune: snacks first, then press play.",
		"Excellent: share this one with a friend.",
		"Small fortune: keep your expectations loose and enjoy.",
	},
	models.LangTW: {
		"大吉:今晚選的片會成為經典。",
		"吉:先準備零食,再按下播放。",
		"上上籤:找朋友一起看這部。",
		"小吉:放輕鬆,好好享受。",
	},
	models.LangCN: {
		"大吉:今晚选的片会成为经典。",
		"吉:先准备零食,再按下播放。",
		"上上签:找朋友一起看这部。",
		"小吉:放轻松,好好享受。",
	},
}

func fortunesFor(lang models.Language) []string {
	if f, ok := fortunes[lang]; ok {
		return f
	}
	return fortunes[models.LangEN]
}
