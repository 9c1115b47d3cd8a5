/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  reader.go - Interfícies per manipular fitxers i lector seqüencial
 *              sobre un accessor.
 */

package utils

import (
  "errors"
  "io"
)


/***************/
/* FILE READER */
/***************/

type FileReader interface {

  // Llig en el buffer. Torna el nombre de bytes llegits. Quan aplega
  // al final torna 0 i io.EOF.
  Read(buf []byte) (int,error)

  // Tanca el fitxer.
  Close() error

}


/***************/
/* FILE WRITER */
/***************/

type FileWriter interface {

  // Escriu el buffer. Torna el nombre de bytes escrits .
  Write(buf []byte) (int,error)

  // Tanca el fitxer
  Close() error

}


/*******************/
/* ACCESSOR READER */
/*******************/

// Lector seqüencial sobre la finestra d'un accessor.
type AccessorReader struct {

  acc Accessor
  pos int64

}


func NewAccessorReader( acc Accessor ) *AccessorReader {
  return &AccessorReader{
    acc: acc,
    pos: 0,
  }
} // end NewAccessorReader


func (self *AccessorReader) Close() error {
  return nil
} // end Close


func (self *AccessorReader) Read( buf []byte ) (int,error) {

  // Calcula el que queda
  remain:= self.acc.Len () - self.pos
  if remain <= 0 { return 0,io.EOF }

  // Reajusta buffer
  var sbuf []byte
  if int64(len(buf)) > remain {
    sbuf= buf[:remain]
  } else {
    sbuf= buf
  }

  // Llig
  if err:= self.acc.Read ( sbuf, self.pos ); err != nil {
    return -1,err
  }
  ret:= len(sbuf)
  self.pos+= int64(ret)

  return ret,nil

} // end Read


func (self *AccessorReader) Seek( offset int64, whence int ) (int64,error) {

  if whence != 0 {
    return -1,errors.New ( "AccessorReader.Seek only supports whence=0" )
  }
  if offset < 0 || offset > self.acc.Len () {
    return -1,errors.New ( "offset out of range" )
  }
  self.pos= offset

  return offset,nil

} // end Seek
