package rotation

var ReleaseLockScript = releaseLockScript
