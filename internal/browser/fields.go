package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"
)

// scanFieldsJS stamps every visible input-like element with a data-aa-ref
// attribute and returns its descriptor. Label resolution priority: label
// element, aria text, placeholder, name, type.
const scanFieldsJS = `(() => {
  const visible = el => !!(el.offsetWidth || el.offsetHeight || el.getClientRects().length);
  const out = [];
  let n = 0;
  document.querySelectorAll('input, textarea, select').forEach(el => {
    if (!visible(el)) return;
    const tag = el.tagName.toLowerCase();
    const type = (el.getAttribute('type') || '').toLowerCase();
    if (['hidden', 'submit', 'button', 'reset'].includes(type)) return;
    const ref = 'aa-' + (++n);
    el.setAttribute('data-aa-ref', ref);

    let label = '';
    if (el.id) {
      const forLabel = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
      if (forLabel) label = forLabel.innerText.trim();
    }
    if (!label) {
      const parentLabel = el.closest('label');
      if (parentLabel) label = parentLabel.innerText.trim();
    }
    const aria = (el.getAttribute('aria-label') || '').trim();
    const name = (el.getAttribute('name') || '').trim();
    const placeholder = (el.getAttribute('placeholder') || '').trim();
    label = (label || aria || placeholder || name || type || tag).trim();

    const options = tag === 'select'
      ? Array.from(el.options).map(o => (o.innerText || '').trim())
      : [];
    out.push({
      ref, tag, type, label, name, placeholder, options,
      required: el.required === true,
      checked: el.checked === true,
    });
  });
  return JSON.stringify(out);
})()`

// scanButtonsJS stamps every visible clickable control with a ref.
const scanButtonsJS = `(() => {
  const visible = el => !!(el.offsetWidth || el.offsetHeight || el.getClientRects().length);
  const out = [];
  let n = 0;
  document.querySelectorAll("button, input[type='submit'], input[type='button']").forEach(el => {
    if (!visible(el)) return;
    const ref = 'aa-btn-' + (++n);
    el.setAttribute('data-aa-ref', ref);
    out.push({
      ref,
      text: (el.innerText || '').trim(),
      value: (el.getAttribute('value') || '').trim(),
      submit: (el.getAttribute('type') || '').toLowerCase() === 'submit',
    });
  });
  return JSON.stringify(out);
})()`

// requiredUnfilledJS returns the labels of visible required fields that are
// still empty.
const requiredUnfilledJS = `(() => {
  const visible = el => !!(el.offsetWidth || el.offsetHeight || el.getClientRects().length);
  const missing = [];
  document.querySelectorAll('input[required], textarea[required], select[required]').forEach(el => {
    if (!visible(el)) return;
    const type = (el.getAttribute('type') || '').toLowerCase();
    if (['hidden', 'submit', 'button', 'reset'].includes(type)) return;
    if (type === 'checkbox' || type === 'radio') {
      if (el.checked) return;
    } else if ((el.value || '').trim()) {
      return;
    }
    let label = '';
    if (el.id) {
      const forLabel = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
      if (forLabel) label = forLabel.innerText.trim();
    }
    label = label || (el.getAttribute('aria-label') || '').trim() || (el.getAttribute('name') || '').trim();
    missing.push(label || 'required field');
  });
  return JSON.stringify(missing);
})()`

func refSelector(ref string) string {
	return fmt.Sprintf(`[data-aa-ref=%q]`, ref)
}

// ScanFields implements Page.
func (s *Session) ScanFields(ctx context.Context) ([]FormField, error) {
	var raw string
	if err := s.run(ctx, defaultActTimeout, chromedp.Evaluate(scanFieldsJS, &raw)); err != nil {
		return nil, fmt.Errorf("field scan failed: %w", err)
	}
	var fields []FormField
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse field scan: %w", err)
	}
	return fields, nil
}

// Buttons implements Page.
func (s *Session) Buttons(ctx context.Context) ([]Button, error) {
	var raw string
	if err := s.run(ctx, defaultActTimeout, chromedp.Evaluate(scanButtonsJS, &raw)); err != nil {
		return nil, fmt.Errorf("button scan failed: %w", err)
	}
	var buttons []Button
	if err := json.Unmarshal([]byte(raw), &buttons); err != nil {
		return nil, fmt.Errorf("failed to parse button scan: %w", err)
	}
	return buttons, nil
}

// RequiredUnfilled implements Page.
func (s *Session) RequiredUnfilled(ctx context.Context) ([]string, error) {
	var raw string
	if err := s.run(ctx, defaultActTimeout, chromedp.Evaluate(requiredUnfilledJS, &raw)); err != nil {
		return nil, fmt.Errorf("required-field scan failed: %w", err)
	}
	var missing []string
	if err := json.Unmarshal([]byte(raw), &missing); err != nil {
		return nil, fmt.Errorf("failed to parse required-field scan: %w", err)
	}
	return missing, nil
}

// SetText implements Page. The value is set through the native setter so
// framework-bound inputs observe the input/change events.
func (s *Session) SetText(ctx context.Context, ref, value string) error {
	js := fmt.Sprintf(`(() => {
  const el = document.querySelector(%q);
  if (!el) return false;
  el.focus();
  const proto = el.tagName === 'TEXTAREA' ? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
  const setter = Object.getOwnPropertyDescriptor(proto, 'value').set;
  setter.call(el, %q);
  el.dispatchEvent(new Event('input', { bubbles: true }));
  el.dispatchEvent(new Event('change', { bubbles: true }));
  return true;
})()`, refSelector(ref), value)

	var ok bool
	if err := s.run(ctx, defaultActTimeout, chromedp.Evaluate(js, &ok)); err != nil {
		return fmt.Errorf("text fill failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("field %s not found", ref)
	}
	return nil
}

// SetChecked implements Page.
func (s *Session) SetChecked(ctx context.Context, ref string, checked bool) error {
	js := fmt.Sprintf(`(() => {
  const el = document.querySelector(%q);
  if (!el) return false;
  if (el.checked !== %t) el.click();
  return true;
})()`, refSelector(ref), checked)

	var ok bool
	if err := s.run(ctx, defaultActTimeout, chromedp.Evaluate(js, &ok)); err != nil {
		return fmt.Errorf("checkbox fill failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("field %s not found", ref)
	}
	return nil
}

// SelectOption implements Page.
func (s *Session) SelectOption(ctx context.Context, ref string, index int) error {
	js := fmt.Sprintf(`(() => {
  const el = document.querySelector(%q);
  if (!el || el.tagName !== 'SELECT' || %d >= el.options.length) return false;
  el.selectedIndex = %d;
  el.dispatchEvent(new Event('change', { bubbles: true }));
  return true;
})()`, refSelector(ref), index, index)

	var ok bool
	if err := s.run(ctx, defaultActTimeout, chromedp.Evaluate(js, &ok)); err != nil {
		return fmt.Errorf("select fill failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("select %s or option %d not found", ref, index)
	}
	return nil
}

// Upload implements Page.
func (s *Session) Upload(ctx context.Context, ref, path string) error {
	err := s.run(ctx, defaultActTimeout,
		chromedp.SetUploadFiles(refSelector(ref), []string{path}, chromedp.ByQuery))
	if err != nil {
		return fmt.Errorf("file upload failed: %w", err)
	}
	return nil
}

// Click implements Page.
func (s *Session) Click(ctx context.Context, ref string) error {
	err := s.run(ctx, defaultActTimeout,
		chromedp.Click(refSelector(ref), chromedp.ByQuery),
		chromedp.Sleep(s.opts.SettleDelay),
	)
	if err != nil {
		return fmt.Errorf("click on %s failed: %w", ref, err)
	}
	return nil
}

// SubmitForm implements Page.
func (s *Session) SubmitForm(ctx context.Context) error {
	var ok bool
	js := `(() => { const f = document.querySelector('form'); if (!f) return false; f.submit(); return true; })()`
	if err := s.run(ctx, defaultActTimeout, chromedp.Evaluate(js, &ok)); err != nil {
		return fmt.Errorf("form submit failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("no form on page")
	}
	return nil
}
