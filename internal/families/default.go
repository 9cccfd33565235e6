package families

// Default returns the built-in family table, one family per paraphrase
// category. A fresh copy is returned on every call.
func Default() Set {
	return Set{
		{Name: "voice", Styles: []string{
			"instruct_first_singular", "instruct_first_plural", "instruct_impersonal_one_should",
			"instruct_passive_voice", "instruct_indirect_relay", "instruct_command",
		}},
		{Name: "tone", Styles: []string{
			"instruct_friendly", "instruct_casual", "instruct_formal_business", "instruct_apologetic",
			"instruct_authoritative", "instruct_confident", "instruct_cynical", "instruct_deadpan",
			"instruct_enthusiastic", "instruct_hopeful", "instruct_humorous", "instruct_insulting",
			"instruct_ironic", "instruct_2_polite", "instruct_3_properpolite", "instruct_4_superpolite",
		}},
		{Name: "syntax", Styles: []string{
			"instruct_cleft_it_is", "instruct_coord_to_subord", "instruct_double_negative",
			"instruct_garden_path", "instruct_inversion", "instruct_hypothetical_if",
			"instruct_direct_question", "instruct_indirect_question", "instruct_future_tense",
		}},
		{Name: "style", Styles: []string{
			"instruct_formal_academic", "instruct_formal_memo", "instruct_bureaucratic",
			"instruct_archaic", "instruct_dramatic", "instruct_haiku", "instruct_absurdist",
			"instruct_euphemistic", "instruct_jargon", "instruct_advertisement",
		}},
		{Name: "special_chars", Styles: []string{
			"instruct_emoji", "instruct_emoticon", "instruct_extra_punct", "instruct_interrobang",
			"instruct_curly_quotations", "instruct_confusable_unicode", "instruct_hashtags",
			"instruct_ellipsis_style", "instruct_em_dash_break",
		}},
		{Name: "obstruction", Styles: []string{
			"instruct_all_caps_and_typo", "instruct_edit_typo", "instruct_base64",
			"instruct_gzip_b64_blob", "instruct_html_comment", "instruct_html_tags",
			"instruct_inline_url", "instruct_inline_ad", "instruct_emoji_and_typo",
		}},
		{Name: "length", Styles: []string{
			"instruct_1_samelength", "instruct_few_words", "instruct_fewest_words",
			"instruct_5_longpolite", "instruct_90char_bullet", "instruct_condensed_then_expand",
		}},
		{Name: "boundary", Styles: []string{
			"instruct_empty_input", "instruct_ambiguous_scope", "instruct_contradictory_ask",
			"instruct_exact_numbers", "instruct_fuzzy_numbers", "instruct_error_message",
		}},
		{Name: "extra", Styles: []string{
			"instruct_footnotes", "instruct_evidence_cited_md", "instruct_fact_check_inline",
			"instruct_helpful_markdown_structure", "instruct_checklist", "instruct_bullet_list",
			"instruct_comparison_table", "instruct_code_fence", "instruct_csv_row",
		}},
		{Name: "language", Styles: []string{
			"instruct_french", "instruct_german", "instruct_chinese_simplified", "instruct_esperanto",
			"instruct_hinglish", "instruct_aave", "instruct_cockney", "instruct_british_english",
			"instruct_american_english", "instruct_australian_english",
		}},
		{Name: "context", Styles: []string{
			"instruct_email", "instruct_exam_prompt", "instruct_forum_quote", "instruct_debate_turns",
			"instruct_child_directed", "instruct_dual_audience", "instruct_emergency_alert",
			"instruct_greeting", "instruct_culinary_jargon", "instruct_finance_jargon",
		}},
	}
}
