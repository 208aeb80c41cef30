package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/warden-bot/warden/automod/ledger"
	"github.com/warden-bot/warden/automod/trigger"
)

// DeferredNotify is a side-effecting alert/log emission the caller may await
// (tests) or detach (the worker). Everything deterministic has already
// happened by the time one of these exists.
type DeferredNotify func(ctx context.Context)

// Default pongo2 templates for log/alert bodies when a rule does not bring
// its own.
const (
	defaultLogTemplate = "Automod rule **{{ rule }}** matched ({{ match_type }}) " +
		"for {{ users|join:\", \" }}{% if matched_value %}: `{{ matched_value }}`{% endif %}" +
		"{% if archive_url %} — evidence: {{ archive_url }}{% endif %}"
	defaultAlertTemplate = defaultLogTemplate
)

// applyActions runs every configured action of the rule against the match,
// independently per action type and per target user. A failure is logged and
// counted but never aborts remaining targets or remaining action types.
func (c *Community) applyActions(ctx context.Context, logger *slog.Logger, rule *Rule, res *trigger.MatchResult, users []string, msgs []ledger.MessageInfo, archiveURL string) []DeferredNotify {
	acts := rule.Actions
	exec := c.deps.Executor

	if acts.Clean != nil {
		// msgs already excludes anything actioned by a prior application of
		// the same wave, so re-deletion cannot happen
		for _, m := range msgs {
			c.runAction(ctx, logger, "clean", func() error {
				return exec.DeleteMessage(ctx, c.ID, m.ChannelID, m.MessageID)
			})
		}
	}
	if acts.Warn != nil {
		for _, uid := range users {
			uid := uid
			c.runAction(ctx, logger, "warn", func() error {
				return exec.Warn(ctx, c.ID, uid, acts.Warn.Reason)
			})
		}
	}
	if acts.Mute != nil {
		for _, uid := range users {
			uid := uid
			c.runAction(ctx, logger, "mute", func() error {
				return exec.Mute(ctx, c.ID, uid, acts.Mute.Duration, acts.Mute.Reason)
			})
		}
	}
	if acts.Kick != nil {
		for _, uid := range users {
			uid := uid
			c.runAction(ctx, logger, "kick", func() error {
				return exec.Kick(ctx, c.ID, uid, acts.Kick.Reason)
			})
		}
	}
	if acts.Ban != nil {
		for _, uid := range users {
			uid := uid
			c.runAction(ctx, logger, "ban", func() error {
				return exec.Ban(ctx, c.ID, uid, acts.Ban.Reason)
			})
		}
	}
	if acts.ChangeNickname != nil {
		for _, uid := range users {
			uid := uid
			c.runAction(ctx, logger, "change_nickname", func() error {
				return exec.SetNickname(ctx, c.ID, uid, acts.ChangeNickname.Name)
			})
		}
	}
	if acts.AddRoles != nil {
		for _, uid := range users {
			uid := uid
			c.runAction(ctx, logger, "add_roles", func() error {
				return exec.AddRoles(ctx, c.ID, uid, acts.AddRoles.RoleIDs)
			})
		}
	}
	if acts.RemoveRoles != nil {
		for _, uid := range users {
			uid := uid
			c.runAction(ctx, logger, "remove_roles", func() error {
				return exec.RemoveRoles(ctx, c.ID, uid, acts.RemoveRoles.RoleIDs)
			})
		}
	}
	if acts.SetAntiraidLevel != nil {
		level := acts.SetAntiraidLevel.Level
		c.runAction(ctx, logger, "set_antiraid_level", func() error {
			return c.setAntiraidLevel(ctx, level)
		})
	}
	if acts.Reply != nil {
		text, ok := c.renderTemplate(ctx, logger, acts.Reply.Text, rule, res, users, archiveURL)
		if ok {
			for _, channelID := range replyChannels(res, msgs) {
				channelID := channelID
				c.runAction(ctx, logger, "reply", func() error {
					return exec.PostReply(ctx, c.ID, channelID, text)
				})
			}
		}
	}

	// alert/log emission is deferred; the worker detaches it
	var deferred []DeferredNotify
	if acts.Alert != nil {
		tmpl := acts.Alert.Text
		if tmpl == "" {
			tmpl = defaultAlertTemplate
		}
		channelID := acts.Alert.ChannelID
		deferred = append(deferred, func(ctx context.Context) {
			text, ok := c.renderTemplate(ctx, logger, tmpl, rule, res, users, archiveURL)
			if !ok {
				return
			}
			c.runAction(ctx, logger, "alert", func() error {
				return exec.PostAlert(ctx, c.ID, channelID, text)
			})
		})
	}
	if acts.Log != nil {
		tmpl := acts.Log.Text
		if tmpl == "" {
			tmpl = defaultLogTemplate
		}
		deferred = append(deferred, func(ctx context.Context) {
			text, ok := c.renderTemplate(ctx, logger, tmpl, rule, res, users, archiveURL)
			if !ok {
				return
			}
			actionAppliedCount.WithLabelValues("log").Inc()
			logger.Info("automod action log", "text", text)
		})
	}
	return deferred
}

// runAction applies one action invocation with partial-failure isolation.
func (c *Community) runAction(ctx context.Context, logger *slog.Logger, action string, fn func() error) {
	if err := fn(); err != nil {
		actionErrorCount.WithLabelValues(action).Inc()
		logger.Error("action execution failed", "action", action, "err", err)
		c.internalAlert(ctx, fmt.Sprintf("action %s failed: %v", action, err))
		return
	}
	actionAppliedCount.WithLabelValues(action).Inc()
}

func (c *Community) setAntiraidLevel(ctx context.Context, level string) error {
	if c.deps.Levels != nil {
		if err := c.deps.Levels.Set(ctx, c.ID, level); err != nil {
			return err
		}
	}
	c.mu.Lock()
	c.antiraidLevel = level
	c.mu.Unlock()
	c.logger.Info("antiraid level changed", "level", level)
	return nil
}

// renderTemplate builds an alert/log/reply body. A render failure degrades
// to an internal bot-alert and skips the specific emission.
func (c *Community) renderTemplate(ctx context.Context, logger *slog.Logger, tmpl string, rule *Rule, res *trigger.MatchResult, users []string, archiveURL string) (string, bool) {
	if c.deps.Renderer == nil {
		return tmpl, true
	}
	text, err := c.deps.Renderer.Render(tmpl, c.templateValues(rule, res, users, archiveURL))
	if err != nil {
		renderErrorCount.Inc()
		logger.Error("template render failed", "err", err)
		c.internalAlert(ctx, fmt.Sprintf("rendering failed for rule %s: %v", rule.Name, err))
		return "", false
	}
	return text, true
}

func (c *Community) templateValues(rule *Rule, res *trigger.MatchResult, users []string, archiveURL string) map[string]any {
	vals := map[string]any{
		"rule":          rule.Name,
		"community_id":  c.ID,
		"match_type":    string(res.Type),
		"matched_value": res.MatchedValue,
		"users":         users,
		"archive_url":   archiveURL,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	}
	if len(users) > 0 {
		vals["user_id"] = users[0]
	}
	if res.Message != nil {
		vals["channel_id"] = res.Message.ChannelID
		vals["message_id"] = res.Message.MessageID
	}
	return vals
}

// replyChannels decides where a reply action posts: the matched message's
// channel, or for spam matches the distinct channels of the contributing
// messages.
func replyChannels(res *trigger.MatchResult, msgs []ledger.MessageInfo) []string {
	if res.Message != nil {
		return []string{res.Message.ChannelID}
	}
	var out []string
	seen := make(map[string]bool)
	for _, m := range msgs {
		if seen[m.ChannelID] {
			continue
		}
		seen[m.ChannelID] = true
		out = append(out, m.ChannelID)
	}
	return out
}
