package twod

import logging "github.com/op/go-logging"

var log = logging.MustGetLogger("twod")
