package langdetect

import "testing"

func TestDetectISO6391(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", ""},
		{"whitespace", "   \n\t", ""},
		{"too short", "你好", ""},
		{"han dominant", "公司今日发布公告，宣布与合作方签署战略投资意向书。", "zh"},
		{"english", "The company announced a strategic investment agreement with its partner today.", "en"},
		{"numbers only", "123456 7890", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DetectISO6391(tc.text); got != tc.want {
				t.Errorf("DetectISO6391(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
